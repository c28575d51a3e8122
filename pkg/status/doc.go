/*
Package status manages target file I/O and outcome tracking for rewriterc.

	            +-------------+
	            |   Manager   |
	            | (root, I/O) |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +-----+-----+
	|  Results  |           |  Report   |
	| (outcome) |           |  (JSON)   |
	+-----------+           +-----------+

🎯 Purpose:
- Reads and overwrites target files in place, keeping permission bits
- Holds dry-run writes in memory so chained pipelines still see them
- Records one FileResult per pipeline and file
- Builds the optional JSON run report

📊 Outcomes:
  - changed: a step produced different content
  - unchanged: nothing matched, the file is left untouched
  - skipped-denylisted: the path matched the exclude list
  - skipped-already-migrated: the file holds a skip marker

⚠️ Writes are plain overwrites. There is no temp file, rename or backup, so
an interrupted write can truncate a target.

🔍 Example:

	mgr := status.New(root, dryRun)

	content, err := mgr.ReadFile(ctx, "fixtures/a.tx")
	written, err := mgr.WriteFile(ctx, "fixtures/a.tx", updated)

	mgr.Track(ctx, status.FileResult{Pipeline: "abi", Path: "fixtures/a.tx", Outcome: status.OutcomeChanged})
	fmt.Println(status.FormatSummary(mgr.Summary("abi")))
*/
package status
