package errors

import (
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// PanicError は回復されたpanicを表すエラーです。評価グリッドは
// モデルエンジンのpanicをこの型に変換し、該当する(candidate, fold)
// セルのfit失敗として報告します。panic全体が評価の実行を止めることは
// ありません。
type PanicError struct {
	// Operation はpanicを回復した操作名
	Operation string
	// PanicValue はpanic()に渡された元の値
	PanicValue interface{}
	// StackTrace はpanic時点のスタックトレース
	StackTrace string
}

// Error はerrorインターフェースを実装します。
func (e *PanicError) Error() string {
	return fmt.Sprintf("modelselect: panic during %s: %v", e.Operation, e.PanicValue)
}

// MarshalZerologObject はzerologの構造化フィールドを出力します。
func (e *PanicError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("error_type", "PanicError").
		Str("operation", e.Operation).
		Str("panic_value", fmt.Sprint(e.PanicValue)).
		Str("stacktrace", e.StackTrace)
}

// NewPanicError はpanic値と現在のスタックトレースからPanicErrorを
// 作成します。
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		Operation:  operation,
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
	}
}

// Recover はdeferから呼び出してpanicをエラーに変換します。呼び出し元の
// 名前付き戻り値へのポインタを渡してください。
//
//	func (e *engine) Fit(X, y mat.Matrix) (err error) {
//	    defer errors.Recover(&err, "engine.Fit")
//	    ...
//	}
//
// すでにエラーが設定されている状態でpanicが起きた場合は、元のエラーを
// panic情報で包んで両方を保持します。
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}

	panicErr := NewPanicError(operation, r)
	if *err != nil {
		*err = Wrapf(*err, "%s", panicErr.Error())
		return
	}
	*err = panicErr
}

// SafeExecute はfnを実行し、panicをPanicErrorに変換して返します。
// fitやpredictを呼ぶ境界で使い、外部エンジンのpanicを評価セル単位の
// エラーに閉じ込めます。
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
