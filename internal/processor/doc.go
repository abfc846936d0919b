// Package processor orchestrates the join-and-append pass over item folders.
//
// A pass discovers pending folders, reads the photo manifest and the agent
// output record for each one, joins them into a listing row, and appends the
// row to the current workbook. Folder failures are isolated: a malformed
// source marks that folder failed and the pass continues. A workbook write
// failure aborts the pass, since the previous workbook state must survive
// intact.
package processor
