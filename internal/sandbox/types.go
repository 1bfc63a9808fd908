package sandbox

import (
	"time"
)

// Config defines sandbox configuration
type Config struct {
	MaxCallStackSize  int      // Maximum JS call stack depth
	MaxConsoleEntries int      // Console entries kept before truncation
	EnableConsole     bool     // Install the recording console
	EnableTimers      bool     // Install setTimeout/setInterval/queueMicrotask
	Globals           []string // Intrinsics kept on the global object
	Unavailable       []string // Browser-only globals reported as unavailable
}

// LogEntry represents console output
type LogEntry struct {
	Level   string    `json:"level"`   // log, info, debug, warn, error
	Message string    `json:"message"` // Rendered arguments
	Time    time.Time `json:"time"`
}

// DefaultGlobals are the intrinsics learner code may use.
var DefaultGlobals = []string{
	"globalThis", "undefined", "NaN", "Infinity",
	"Object", "Function", "Array", "Number", "Boolean", "String", "Symbol", "BigInt",
	"Math", "JSON", "Date", "RegExp", "Promise", "Reflect", "Proxy",
	"Map", "Set", "WeakMap", "WeakSet", "WeakRef",
	"Error", "AggregateError", "EvalError", "RangeError", "ReferenceError",
	"SyntaxError", "TypeError", "URIError",
	"ArrayBuffer", "DataView", "Int8Array", "Uint8Array", "Uint8ClampedArray",
	"Int16Array", "Uint16Array", "Int32Array", "Uint32Array", "Float32Array",
	"Float64Array", "BigInt64Array", "BigUint64Array",
	"parseInt", "parseFloat", "isNaN", "isFinite",
	"encodeURI", "encodeURIComponent", "decodeURI", "decodeURIComponent",
	"escape", "unescape",
}

// DefaultUnavailable are host globals a browser or Node would provide.
var DefaultUnavailable = []string{
	"fetch", "window", "document", "navigator", "location", "history",
	"localStorage", "sessionStorage", "indexedDB", "XMLHttpRequest", "WebSocket",
	"AbortController", "AbortSignal", "Headers", "Request", "Response", "URL",
	"URLSearchParams", "Blob", "File", "FileReader", "FormData", "Event",
	"EventTarget", "CustomEvent", "alert", "confirm", "prompt",
	"requestAnimationFrame", "cancelAnimationFrame", "performance", "crypto",
	"structuredClone", "Worker", "TextEncoder", "TextDecoder",
	"require", "process", "module", "exports", "Buffer", "global",
}

// DefaultConfig returns the configuration used for learner submissions.
func DefaultConfig() Config {
	return Config{
		MaxCallStackSize:  1024,
		MaxConsoleEntries: 1000,
		EnableConsole:     true,
		EnableTimers:      true,
		Globals:           DefaultGlobals,
		Unavailable:       DefaultUnavailable,
	}
}
