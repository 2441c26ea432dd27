// Package cpf 提供巴西納稅人編號 (CPF) 的檢查碼驗證。
// 純函式、無狀態；任何輸入皆回傳 bool，不會 panic。
package cpf

import "strings"

// separators 為正規化時要去除的分隔字元。
var separators = strings.NewReplacer(".", "", "-", "", " ", "")

// Normalize 去除點、連字號與空白，回傳僅含剩餘字元的字串。
// 不檢查是否為數字；格式判斷交給 IsValid。
func Normalize(s string) string {
	return separators.Replace(s)
}

// IsValid 驗證 CPF 的兩位檢查碼。
//   - 正規化後必須剛好 11 個 ASCII 數字
//   - 11 位全部相同者視為無效（例如 111.111.111-11）
//   - 第 10、11 位分別與加權和計算出的檢查碼比對
func IsValid(s string) bool {
	n := Normalize(s)
	if len(n) != 11 {
		return false
	}

	var d [11]int
	same := true
	for i := 0; i < 11; i++ {
		c := n[i]
		if c < '0' || c > '9' {
			return false
		}
		d[i] = int(c - '0')
		if d[i] != d[0] {
			same = false
		}
	}
	if same {
		return false
	}

	return checkDigit(d[:9], 10) == d[9] && checkDigit(d[:10], 11) == d[10]
}

// checkDigit 以權重 first, first-1, ... 對 digits 加權求和，
// 餘數 < 2 時檢查碼為 0，否則為 11 - 餘數。
func checkDigit(digits []int, first int) int {
	sum := 0
	for i, v := range digits {
		sum += v * (first - i)
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}
