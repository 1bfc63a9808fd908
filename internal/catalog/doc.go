/*
Package catalog loads the read-only problem set.

Problems live in YAML, TOML or JSON files under one directory. A file holds a
single problem, or several under a top-level "problems" key:

	id: two-sum
	title: Two Sum
	category: arrays
	difficulty: easy
	functionName: twoSum
	starterCode: |
	  function twoSum(nums, target) {}
	solution: |
	  function twoSum(nums, target) { ... }
	testCases:
	  - input: [[2, 7, 11, 15], 9]
	    expectedOutput: [0, 1]

Test-case values use the same {"$js": ...} form as the HTTP API for values the
file formats cannot express.
*/
package catalog
