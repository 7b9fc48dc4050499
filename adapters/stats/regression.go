package stats

import (
	"fmt"
	"math"
	"sort"

	"surveyflow/domain/core"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Coefficient is one row of an OLS coefficient table.
type Coefficient struct {
	Name     string  `json:"name"`
	Estimate float64 `json:"estimate"`
	StdErr   float64 `json:"std_err"`
	TStat    float64 `json:"t_stat"`
	PValue   float64 `json:"p_value"`
}

// ModelFit is the outcome of one exploratory moderator regression.
type ModelFit struct {
	Name         string        `json:"name"`
	Coefficients []Coefficient `json:"coefficients"`
	RSquared     float64       `json:"r_squared"`
	ResidualDF   int           `json:"residual_df"`
	N            int           `json:"n"`
}

// FitOLS solves y = X*beta by least squares and derives the coefficient
// table. Column names must align with the design matrix columns. A rank
// deficient design (collinearity, an empty moderator cell) surfaces as a
// model fit error for this model only.
func FitOLS(name string, names []string, design [][]float64, y []float64) (ModelFit, error) {
	fit := ModelFit{Name: name, N: len(y)}
	p := len(names)
	if len(design) != len(y) || len(y) == 0 {
		return fit, core.NewModelFitError(name, fmt.Errorf("design has %d rows for %d observations", len(design), len(y)))
	}
	if len(y) <= p {
		return fit, core.NewModelFitError(name, fmt.Errorf("%d observations cannot identify %d coefficients", len(y), p))
	}

	x := mat.NewDense(len(y), p, nil)
	for i, row := range design {
		if len(row) != p {
			return fit, core.NewModelFitError(name, fmt.Errorf("design row %d has %d columns, want %d", i, len(row), p))
		}
		x.SetRow(i, row)
	}
	yVec := mat.NewVecDense(len(y), append([]float64(nil), y...))

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return fit, core.NewModelFitError(name, fmt.Errorf("singular design matrix: %w", err))
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), yVec)
	var beta mat.VecDense
	beta.MulVec(&xtxInv, &xty)

	// residual variance
	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	rss := 0.0
	for i := 0; i < len(y); i++ {
		r := y[i] - fitted.AtVec(i)
		rss += r * r
	}
	df := len(y) - p
	sigma2 := rss / float64(df)

	ybar := mean(y)
	tss := 0.0
	for _, v := range y {
		tss += (v - ybar) * (v - ybar)
	}
	if tss > 0 {
		fit.RSquared = 1 - rss/tss
	}
	fit.ResidualDF = df

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	fit.Coefficients = make([]Coefficient, p)
	for j := 0; j < p; j++ {
		se := math.Sqrt(sigma2 * xtxInv.At(j, j))
		c := Coefficient{Name: names[j], Estimate: beta.AtVec(j), StdErr: se}
		if se > 0 {
			c.TStat = c.Estimate / se
			c.PValue = 2 * tDist.Survival(math.Abs(c.TStat))
		} else {
			c.PValue = math.NaN()
		}
		fit.Coefficients[j] = c
	}
	return fit, nil
}

// ModeratorCategorical fits score on condition (0/1), dummy-coded levels of
// a categorical moderator, and their interactions. The first observed level
// (sorted) is the reference category.
func ModeratorCategorical(name string, condition []float64, moderator []string, score []float64) (ModelFit, error) {
	if len(condition) != len(score) || len(moderator) != len(score) {
		return ModelFit{Name: name}, core.NewModelFitError(name, fmt.Errorf("misaligned inputs"))
	}

	levels := distinctLevels(moderator)
	if len(levels) < 2 {
		return ModelFit{Name: name}, core.NewModelFitError(name, fmt.Errorf("moderator has %d level(s), need at least 2", len(levels)))
	}
	dummies := levels[1:]

	names := []string{"intercept", "condition"}
	for _, l := range dummies {
		names = append(names, "level["+l+"]")
	}
	for _, l := range dummies {
		names = append(names, "condition:level["+l+"]")
	}

	design := make([][]float64, len(score))
	for i := range score {
		row := make([]float64, 0, len(names))
		row = append(row, 1, condition[i])
		for _, l := range dummies {
			d := 0.0
			if moderator[i] == l {
				d = 1
			}
			row = append(row, d)
		}
		for _, l := range dummies {
			d := 0.0
			if moderator[i] == l {
				d = condition[i]
			}
			row = append(row, d)
		}
		design[i] = row
	}

	return FitOLS(name, names, design, score)
}

// ModeratorContinuous fits score on condition (0/1), a centered continuous
// moderator, and their interaction.
func ModeratorContinuous(name string, condition, moderator, score []float64) (ModelFit, error) {
	if len(condition) != len(score) || len(moderator) != len(score) {
		return ModelFit{Name: name}, core.NewModelFitError(name, fmt.Errorf("misaligned inputs"))
	}

	center := mean(moderator)
	names := []string{"intercept", "condition", "moderator", "condition:moderator"}
	design := make([][]float64, len(score))
	for i := range score {
		m := moderator[i] - center
		design[i] = []float64{1, condition[i], m, condition[i] * m}
	}

	return FitOLS(name, names, design, score)
}

func distinctLevels(values []string) []string {
	seen := make(map[string]bool)
	var levels []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		levels = append(levels, v)
	}
	sort.Strings(levels)
	return levels
}
