// Package textutil provides the text-level primitives used by the scan
// engine: Shannon entropy, line/column position mapping, and best-effort
// decoding of escaped content.
//
// All functions are pure and never fail: malformed input degrades to a
// best-effort result rather than an error, because the scanner must keep
// going on adversarial or corrupted page content.
package textutil
