// Package fuzztests houses Go fuzz harnesses that exercise the deck
// assembly pipeline (loader -> include expansion -> continuation
// merging -> card parsing). Its goal is to smoke test robustness and
// guard against panics on arbitrary inputs.
package fuzztests
