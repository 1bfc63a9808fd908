/*
Package http provides the Gin handlers of the evaluation API.

	GET  /                       service banner
	GET  /health                 catalog size, sandbox pool and metric totals
	POST /evaluate               {code, testCases, functionName?} -> report
	GET  /problems[?category=]   problem summaries
	GET  /problems/:id           one problem with its test cases
	POST /problems/:id/evaluate  {code, functionName?} -> report

Evaluation endpoints answer 200 with the report for every well-formed
request, including submissions that fail to compile or time out; only a
malformed body is a 400.
*/
package http
