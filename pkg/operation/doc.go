/*
Package operation applies rewrite pipelines to the files on disk.

	+-------------+
	|   Runner    |
	| (in order)  |
	+------+------+
	       |
	+------+------+
	|  Pipeline   |
	| (per file)  |
	+------+------+
	       |
	+------+------+
	|    text     |
	|  (steps)    |
	+-------------+

🎯 Purpose:
- Compiles configured steps into text rule sets and field inserters
- Enumerates each pipeline's file set with doublestar globs
- Decides one outcome per file and writes only what changed

🔄 Flow, per file:
1. Denylisted paths are reported and never read
2. A skip marker means the file was already migrated
3. Files lacking every require marker are left unchanged
4. Steps run in order over the content
5. Changed content is written back in place (or held in memory for a dry run)

⚡ Pipelines run sequentially and in config order, so a later pipeline sees
what an earlier one wrote. A file that cannot be read or written stops the
run with an error naming the pipeline and the file.

🔍 Example:

	res, err := operation.Run(ctx, operation.RunOptions{Config: cfg, DryRun: true})
	if err != nil {
		return err
	}
	for _, r := range res.Files.Pending() {
		fmt.Print(operation.UnifiedDiff(r.Path, r.Before, r.After))
	}
	return res.Check()
*/
package operation
