/*
Package value models JavaScript values on the Go side of the sandbox.

Values exchanged with the evaluation scope use a small closed set of Go types:

	nil               null
	Undefined         undefined
	bool              boolean
	float64           number (including NaN, ±Infinity and -0)
	string            string
	*big.Int          bigint
	[]any             Array
	map[string]any    plain object (own enumerable string keys)
	*Function         function
	*Symbol           symbol
	Circular          a reference back to an enclosing object

DeepEqual implements the structural equality used to judge test cases.
Normalize converts decoder output (ints, map[any]any, tagged specials) into this set,
and Encode/Decode move specials through JSON as {"$js": "..."} objects.
*/
package value
