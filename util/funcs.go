package util

import (
	"iter"
)

func MapIter[A, B any](iter iter.Seq[A], f func(A) B) iter.Seq[B] {
	return func(yield func(B) bool) {
		for v := range iter {
			if !yield(f(v)) {
				return
			}
		}
	}
}

func Reverse[A any](slice []A) iter.Seq[A] {
	return func(yield func(A) bool) {
		for i := len(slice) - 1; i >= 0; i-- {
			if !yield(slice[i]) {
				return
			}
		}
	}
}

func CollectMap[A, B any](s iter.Seq[A], f func(A) B) []B {
	var out []B
	for v := range MapIter(s, f) {
		out = append(out, v)
	}
	return out
}
