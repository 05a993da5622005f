package util

import (
	"path/filepath"
	"strings"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Chunk splits items into consecutive groups of size. The last group may be
// shorter.
func Chunk[A any](items []A, size int) [][]A {
	var res [][]A
	for size > 0 && len(items) > 0 {
		n := Min(size, len(items))
		res = append(res, items[:n:n])
		items = items[n:]
	}
	return res
}

// Unique returns the distinct values of nums in ascending order.
func Unique[A constraints.Ordered](nums []A) []A {
	res := slices.Clone(nums)
	slices.Sort(res)
	return slices.Compact(res)
}

func Min[A constraints.Ordered](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Ordered](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

func Clamp[A constraints.Ordered](v, lo, hi A) A {
	return Max(lo, Min(v, hi))
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}

// Ext returns the lower-cased extension of a filename, dot included.
func Ext(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

func HasExt(filename string, exts ...string) bool {
	return slices.Contains(exts, Ext(filename))
}
