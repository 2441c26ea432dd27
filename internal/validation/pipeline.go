// Package validation 在呼叫 bank 寫入操作前檢查請求。
//
// 檢查分兩段：
//  1. 結構檢查：go-playground/validator 的 struct tag（必填、長度、金額為正）。
//  2. 業務檢查：依序執行的 Check 清單，只透過 Reader 讀取 bank 狀態，
//     同一欄位第一個失敗後即略過該欄位後續檢查；Needs 列出的欄位失敗時也略過。
//
// 所有失敗以欄位分組累積後一次回傳。
package validation

import (
	"sort"
	"strings"
)

// FieldErrors 以欄位名稱分組的驗證失敗訊息。
type FieldErrors map[string][]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(fe[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (fe FieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Has 回報欄位是否已有失敗。
func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

func (fe FieldErrors) orNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Check 為單一業務規則。
type Check[T any] struct {
	Field   string
	Message string
	// Needs 中任一欄位已失敗時不執行（例如帳戶不存在就不檢查餘額）。
	Needs []string
	Pass  func(T) bool
}

// Pipeline 為依序執行的 Check 清單。
type Pipeline[T any] []Check[T]

// Run 對 req 執行所有檢查，失敗寫入 errs。
func (p Pipeline[T]) Run(req T, errs FieldErrors) {
	for _, c := range p {
		if errs.Has(c.Field) || blocked(errs, c.Needs) {
			continue
		}
		if !c.Pass(req) {
			errs.add(c.Field, c.Message)
		}
	}
}

func blocked(errs FieldErrors, needs []string) bool {
	for _, f := range needs {
		if errs.Has(f) {
			return true
		}
	}
	return false
}
