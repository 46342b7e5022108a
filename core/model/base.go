package model

// BaseEstimator は全ての推定器に埋め込む基底構造体で、学習済みか
// どうかの状態のみを管理する。評価グリッドは学習済みの予測器を
// 不変として扱うため、一度Fittedになった状態を戻す操作は持たない。
type BaseEstimator struct {
	fitted bool
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.fitted
}

// SetFitted はモデルを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.fitted = true
}
