package assortment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	memoryRe    = regexp.MustCompile(`(?i)(\d+)\s*(gb|гб|tb|тб)`)
	watchSizeRe = regexp.MustCompile(`(?i)(\d+)\s*mm`)
	simPlusRe   = regexp.MustCompile(`(?i)\(sim\+esim\)|\bsim\+esim\b`)
	esimRe      = regexp.MustCompile(`(?i)\(esim\)|\besim\b`)
	modelRe     = regexp.MustCompile(`(?i)\bs\s+(\d+)`)
)

// NormalizeName убирает крайние пробелы и схлопывает пробелы внутри
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// normalizeModel для Apple Watch убирает пробел после S: "S 11" -> "S11"
func normalizeModel(name string) string {
	return modelRe.ReplaceAllString(name, "S$1")
}

// ExtractMemory объём памяти в исходных единицах: "256GB", "1TB", "" если нет
func ExtractMemory(text string) string {
	sub := memoryRe.FindStringSubmatch(text)
	if sub == nil {
		return ""
	}
	return sub[1] + strings.ToUpper(sub[2])
}

// memoryRank объём в гигабайтах для сортировки (TB умножается на 1024)
func memoryRank(num int, unit string) int {
	switch strings.ToLower(unit) {
	case "tb", "тб":
		return num * 1024
	default:
		return num
	}
}

// memoryKey группа по памяти: возрастание объёма, без памяти — в конец
func memoryKey(item string) groupKey {
	sub := memoryRe.FindStringSubmatch(item)
	if sub == nil {
		return noGroup
	}
	num, _ := strconv.Atoi(sub[1])
	return groupKey{
		rank:  memoryRank(num, sub[2]),
		label: sub[1] + strings.ToUpper(sub[2]) + ":",
	}
}

// Типы SIM в фиксированном порядке вывода
const (
	simESIM = iota
	simDual
	simOther
)

// simKey подгруппа по SIM: eSIM, SIM+eSIM, затем всё остальное без подзаголовка
func simKey(item string) groupKey {
	switch {
	case simPlusRe.MatchString(item):
		return groupKey{rank: simDual, label: "-SIM+eSIM-"}
	case esimRe.MatchString(item):
		return groupKey{rank: simESIM, label: "-eSIM-"}
	default:
		return groupKey{rank: simOther}
	}
}

// watchSizeKey группа по размеру корпуса часов в миллиметрах
func watchSizeKey(item string) groupKey {
	sub := watchSizeRe.FindStringSubmatch(item)
	if sub == nil {
		return noGroup
	}
	num, _ := strconv.Atoi(sub[1])
	return groupKey{rank: num, label: fmt.Sprintf("%dmm:", num)}
}
