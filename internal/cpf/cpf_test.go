// internal/cpf/cpf_test.go
//
// CPF 檢查碼驗證測試：涵蓋合法號碼、重複數字、檢查碼錯誤與長度錯誤。

package cpf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"formatted valid", "529.982.247-25", true},
		{"bare valid", "52998224725", true},
		{"spaces and dashes", "529 982 247 - 25", true},
		{"second valid number", "111.444.777-35", true},
		{"repeated digits", "111.111.111-11", false},
		{"all zeros", "00000000000", false},
		{"bad check digits", "123.456.789-00", false},
		{"first check digit wrong", "529.982.247-35", false},
		{"second check digit wrong", "529.982.247-26", false},
		{"too short", "529.982.247-2", false},
		{"too long", "529.982.247-255", false},
		{"letters", "529.982.24a-25", false},
		{"empty", "", false},
		{"only separators", "..- ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "52998224725", Normalize("529.982.247-25"))
	assert.Equal(t, "52998224725", Normalize(" 529 982 247 25 "))
	assert.Equal(t, "abc", Normalize("a.b-c"))
}
