package metrics

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Accuracy は正解率を計算する
// ラベルは完全一致で比較される（しきい値処理は呼び出し側の責務）
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError("Accuracy", "nil vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}

	return float64(correct) / float64(n), nil
}

// ClassificationError は誤分類率（1 - Accuracy）を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// AccuracyMatrix は行列形式の入力に対して正解率を計算する
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	yTrueVec, yPredVec, err := columnVectors("AccuracyMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return Accuracy(yTrueVec, yPredVec)
}

// BinaryLogLoss は二値分類の交差エントロピー損失を計算する
// 予測確率は log(0) を避けるため [eps, 1-eps] にクリップされる
func BinaryLogLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError("BinaryLogLoss", "nil vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("BinaryLogLoss", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("BinaryLogLoss", n, yPred.Len(), 0)
	}

	const eps = 1e-15

	var sum float64
	for i := 0; i < n; i++ {
		label := yTrue.AtVec(i)
		if label != 0 && label != 1 {
			return 0, errors.NewValueError("BinaryLogLoss", "labels must be binary (0 or 1)")
		}

		p := yPred.AtVec(i)
		if p < eps {
			p = eps
		} else if p > 1-eps {
			p = 1 - eps
		}

		if label == 1 {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}

	return sum / float64(n), nil
}

// AUC はROC曲線下面積を計算する
//
// ランクベースの定義（Mann-Whitney統計量）を使用する:
// ランダムに選んだ陽性サンプルのスコアが陰性サンプルのスコアを上回る確率。
// スコアが同値の場合は0.5のクレジットが与えられる（midrank法）。
// 片方のクラスしか存在しない場合、AUCは未定義のため警告を発して0.5を返す。
func AUC(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError("AUC", "nil vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("AUC", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("AUC", n, yPred.Len(), 0)
	}

	nPos := 0
	for i := 0; i < n; i++ {
		label := yTrue.AtVec(i)
		if label != 0 && label != 1 {
			return 0, errors.NewValueError("AUC", "labels must be binary (0 or 1)")
		}
		if label == 1 {
			nPos++
		}
	}
	nNeg := n - nPos

	// 片方のクラスしか存在しない退化ケース
	if nPos == 0 || nNeg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("AUC", "only one class present", 0.5))
		return 0.5, nil
	}

	// スコア昇順でソートし、同値にはmidrankを割り当てる
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return yPred.AtVec(order[a]) < yPred.AtVec(order[b])
	})

	// 陽性サンプルのランク和を計算
	var posRankSum float64
	i := 0
	for i < n {
		j := i
		for j < n && yPred.AtVec(order[j]) == yPred.AtVec(order[i]) {
			j++
		}

		// [i, j) は同値グループ: 平均ランクを割り当てる
		avgRank := float64(i+j+1) / 2 // 1-based midrank
		for k := i; k < j; k++ {
			if yTrue.AtVec(order[k]) == 1 {
				posRankSum += avgRank
			}
		}
		i = j
	}

	// AUC = (R_pos - nPos*(nPos+1)/2) / (nPos * nNeg)
	u := posRankSum - float64(nPos)*float64(nPos+1)/2
	return u / (float64(nPos) * float64(nNeg)), nil
}

// AUCMatrix は行列形式の入力に対してAUCを計算する
func AUCMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	yTrueVec, yPredVec, err := columnVectors("AUCMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return AUC(yTrueVec, yPredVec)
}

// ConfusionMatrixResult は二値分類の混同行列を表す
type ConfusionMatrixResult struct {
	TruePositive  int
	TrueNegative  int
	FalsePositive int
	FalseNegative int
}

// Precision は適合率 TP / (TP + FP) を返す
// 陽性予測が一つもない場合は警告を発して0を返す
func (cm *ConfusionMatrixResult) Precision() float64 {
	denom := cm.TruePositive + cm.FalsePositive
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("Precision", "no positive predictions", 0))
		return 0
	}
	return float64(cm.TruePositive) / float64(denom)
}

// Recall は再現率 TP / (TP + FN) を返す
// 陽性サンプルが一つもない場合は警告を発して0を返す
func (cm *ConfusionMatrixResult) Recall() float64 {
	denom := cm.TruePositive + cm.FalseNegative
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("Recall", "no positive samples", 0))
		return 0
	}
	return float64(cm.TruePositive) / float64(denom)
}

// ConfusionMatrix は二値ラベルの混同行列を計算する
func ConfusionMatrix(yTrue, yPred *mat.VecDense) (*ConfusionMatrixResult, error) {
	// 入力検証
	if yTrue == nil || yPred == nil {
		return nil, errors.NewValueError("ConfusionMatrix", "nil vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "empty vector")
	}

	if yPred.Len() != n {
		return nil, errors.NewDimensionError("ConfusionMatrix", n, yPred.Len(), 0)
	}

	cm := &ConfusionMatrixResult{}
	for i := 0; i < n; i++ {
		actual := yTrue.AtVec(i)
		pred := yPred.AtVec(i)

		if (actual != 0 && actual != 1) || (pred != 0 && pred != 1) {
			return nil, errors.NewValueError("ConfusionMatrix", "labels must be binary (0 or 1)")
		}

		switch {
		case actual == 1 && pred == 1:
			cm.TruePositive++
		case actual == 0 && pred == 0:
			cm.TrueNegative++
		case actual == 0 && pred == 1:
			cm.FalsePositive++
		default:
			cm.FalseNegative++
		}
	}

	return cm, nil
}
