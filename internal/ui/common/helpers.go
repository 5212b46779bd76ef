package common

import (
	"fmt"
	"strconv"
)

// TruncateName 按字符截断玩家名
func TruncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) > maxLen {
		return string(runes[:maxLen-1]) + "…"
	}
	return name
}

// SignedInt 正数带加号
func SignedInt(v int) string {
	if v > 0 {
		return "+" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

// RoundHeader 例如 "East 2, 1 honba, 2 sticks"
func RoundHeader(kyokuName string, honba, sticks int) string {
	return fmt.Sprintf("%s, %d honba, %d %s", kyokuName, honba, sticks, plural(sticks, "stick"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
