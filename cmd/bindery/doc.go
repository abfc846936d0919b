// Command bindery joins photographed book folders with agent-generated
// listing data and appends the results to an eBay upload workbook.
package main
