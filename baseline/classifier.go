package baseline

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// MajorityClassifier は訓練データで最頻のクラスを常に予測する分類モデル。
// PredictProba は訓練データのクラス頻度（事前確率）を返すため、
// AUCのような確率ベースの指標の基準線としても使える。
type MajorityClassifier struct {
	model.BaseEstimator
	classes  []float64           // 学習時に観測されたクラス（昇順）
	priors   map[float64]float64 // クラスごとの出現頻度
	majority float64             // 最頻クラス
}

var _ model.ProbaPredictor = (*MajorityClassifier)(nil)

// NewMajorityClassifier は新しいMajorityClassifierを作成する
func NewMajorityClassifier() *MajorityClassifier {
	return &MajorityClassifier{}
}

// Fit はクラスの出現頻度と最頻クラスを学習する
func (m *MajorityClassifier) Fit(_, y mat.Matrix) error {
	if y == nil {
		return errors.NewValueError("MajorityClassifier.Fit", "nil target")
	}

	r, c := y.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "MajorityClassifier.Fit")
	}

	counts := make(map[float64]int)
	for i := 0; i < r; i++ {
		counts[y.At(i, 0)]++
	}

	m.classes = m.classes[:0]
	for label := range counts {
		m.classes = append(m.classes, label)
	}
	sort.Float64s(m.classes)

	m.priors = make(map[float64]float64, len(counts))
	bestCount := -1
	for _, label := range m.classes {
		m.priors[label] = float64(counts[label]) / float64(r)
		// 同数の場合は小さいラベルを採用する（classesは昇順）
		if counts[label] > bestCount {
			bestCount = counts[label]
			m.majority = label
		}
	}

	m.SetFitted()
	return nil
}

// Predict はすべての入力に対して最頻クラスを返す
func (m *MajorityClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MajorityClassifier", "Predict")
	}
	if X == nil {
		return nil, errors.NewValueError("MajorityClassifier.Predict", "nil input")
	}

	r, _ := X.Dims()
	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		predictions.Set(i, 0, m.majority)
	}
	return predictions, nil
}

// PredictProba は各クラスの事前確率を返す
// 列は昇順に並んだクラスに対応する（二値分類なら [P(0), P(1)]）
func (m *MajorityClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MajorityClassifier", "PredictProba")
	}
	if X == nil {
		return nil, errors.NewValueError("MajorityClassifier.PredictProba", "nil input")
	}

	r, _ := X.Dims()
	probs := mat.NewDense(r, len(m.classes), nil)
	for i := 0; i < r; i++ {
		for j, label := range m.classes {
			probs.Set(i, j, m.priors[label])
		}
	}
	return probs, nil
}

// Classes は学習時に観測されたクラスを昇順で返す
func (m *MajorityClassifier) Classes() []float64 {
	out := make([]float64, len(m.classes))
	copy(out, m.classes)
	return out
}
