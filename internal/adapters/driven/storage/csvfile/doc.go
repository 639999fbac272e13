// Package csvfile implements driven.ProgressStore as plain files.
//
// Each target gets a directory <root>/<owner>_<name>/ holding:
//
//	<name>_issues.csv         append-only issue rows
//	<name>_pull_requests.csv  append-only pull request rows
//	last_page.txt             next page index
//	progress.toml             exact count and run metadata for that page
//
// A flush appends rows before moving the checkpoint. The files are not
// written atomically together, so a crash between the two steps can
// duplicate or drop one page on resume.
package csvfile
