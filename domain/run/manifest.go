// Package run records what went into an analysis so it can be replayed.
package run

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"surveyflow/domain/core"
	"surveyflow/domain/survey"
)

// Manifest is the truth source for one run: the exact inputs and filter
// constants the results were produced from. Written alongside the report so
// a run can be reproduced or audited later.
type Manifest struct {
	RunID        core.RunID           `json:"run_id"`
	Silent       survey.Condition     `json:"silent"`
	Audio        survey.Condition     `json:"audio"`
	Spec         survey.CleaningSpec  `json:"spec"`
	SourceHashes map[string]core.Hash `json:"source_hashes,omitempty"`
	CodeVersion  string               `json:"code_version"`
	Fingerprint  core.Hash            `json:"fingerprint"`
	CreatedAt    core.Timestamp       `json:"created_at"`
}

// NewManifest builds the manifest and stamps its fingerprint.
func NewManifest(runID core.RunID, silent, audio survey.Condition, spec survey.CleaningSpec, codeVersion string) *Manifest {
	m := &Manifest{
		RunID:       runID,
		Silent:      silent,
		Audio:       audio,
		Spec:        spec,
		CodeVersion: codeVersion,
		CreatedAt:   core.Now(),
	}
	m.SourceHashes = map[string]core.Hash{
		silent.SourcePath: hashFile(silent.SourcePath),
		audio.SourcePath:  hashFile(audio.SourcePath),
	}
	m.Fingerprint = m.fingerprint()
	return m
}

// fingerprint digests every determinism-relevant field. RunID and
// CreatedAt are deliberately excluded: two runs over the same inputs with
// the same constants must fingerprint identically.
func (m *Manifest) fingerprint() core.Hash {
	data := fmt.Sprintf("silent:%s@%s>=%g|audio:%s@%s>=%g|attention:%g|duration:%g|frequency:%g|extended:%v|items:%v|code:%s|sources:%s,%s",
		m.Silent.SourcePath, m.Silent.Cutoff, m.Silent.ManipulationTarget,
		m.Audio.SourcePath, m.Audio.Cutoff, m.Audio.ManipulationTarget,
		m.Spec.AttentionTarget, m.Spec.MinDurationSeconds, m.Spec.FrequencyBound,
		m.Spec.Extended, m.Spec.ItemColumns, m.CodeVersion,
		m.SourceHashes[m.Silent.SourcePath], m.SourceHashes[m.Audio.SourcePath])
	sum := sha256.Sum256([]byte(data))
	return core.Hash(fmt.Sprintf("%x", sum))
}

// Validate checks the manifest is complete enough to identify a run.
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return fmt.Errorf("manifest: run_id cannot be empty")
	}
	if m.Silent.SourcePath == "" || m.Audio.SourcePath == "" {
		return fmt.Errorf("manifest: both source paths must be set")
	}
	if m.Fingerprint == "" {
		return fmt.Errorf("manifest: fingerprint cannot be empty")
	}
	return nil
}

// WriteJSON emits the manifest as indented JSON.
func (m *Manifest) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// hashFile digests a source file's bytes. An unreadable file hashes to
// empty: the manifest still records the path, and the load error surfaces
// through the pipeline itself.
func hashFile(path string) core.Hash {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return core.Hash(fmt.Sprintf("%x", sum))
}
