package helper

import (
	"strconv"
	"strings"

	"review_pal/log"
	"review_pal/model"
)

// ParseDiff turns unified-diff text into per-file change sets covering every
// added line. Deleted files are excluded, as are files without added lines.
// A file section with a malformed hunk header is skipped entirely so the rest
// of the diff still gets reviewed.
//
// Hunk bodies are consumed by the line counts declared in the "@@" header, so
// removed lines whose content begins with "-- " (rendered as "--- ...") or
// added lines beginning with "++ " are never mistaken for file headers.
func ParseDiff(diffText string) []model.FileChangeSet {
	if strings.TrimSpace(diffText) == "" {
		log.Warn("Empty diff content received")
		return nil
	}

	var files []model.FileChangeSet

	var (
		path      string
		units     []model.ChangeUnit
		deleted   bool
		corrupt   bool
		destLine  int
		oldRemain int
		newRemain int
	)

	flush := func() {
		if path != "" && !deleted && !corrupt && len(units) > 0 {
			files = append(files, model.FileChangeSet{FilePath: path, Units: units})
		}
		path, units = "", nil
		deleted, corrupt = false, false
		oldRemain, newRemain = 0, 0
	}

	for _, line := range strings.Split(diffText, "\n") {
		if oldRemain > 0 || newRemain > 0 {
			// Inside a hunk body: classify by prefix only, headers cannot
			// appear until the declared counts are exhausted.
			switch {
			case strings.HasPrefix(line, "\\"):
				// "\ No newline at end of file" consumes no budget.
			case strings.HasPrefix(line, "+"):
				units = append(units, model.ChangeUnit{
					FilePath:   path,
					LineNumber: destLine,
					Content:    strings.TrimSpace(strings.TrimPrefix(line, "+")),
				})
				destLine++
				newRemain--
			case strings.HasPrefix(line, "-"):
				oldRemain--
			default:
				destLine++
				oldRemain--
				newRemain--
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "Filename: "):
			// Per-file marker some diff feeds prepend to each patch.
			flush()
			path = strings.TrimSpace(strings.TrimPrefix(line, "Filename: "))
		case strings.HasPrefix(line, "diff --git"):
			flush()
		case strings.HasPrefix(line, "+++ "):
			target := strings.TrimSpace(strings.TrimPrefix(line, "+++ "))
			if target == "/dev/null" {
				deleted = true
				break
			}
			if path == "" {
				path = strings.TrimPrefix(target, "b/")
			}
		case strings.HasPrefix(line, "@@"):
			if corrupt {
				break
			}
			destStart, oldCount, newCount, err := parseHunkHeader(line)
			if err != nil {
				log.Errorf("Malformed hunk header in %s, skipping file: %v", path, err)
				corrupt = true
				break
			}
			destLine = destStart
			oldRemain, newRemain = oldCount, newCount
		}
	}
	flush()

	return files
}

// parseHunkHeader extracts the destination start line and both line counts
// from a header like "@@ -a,b +c,d @@". An omitted count defaults to 1.
func parseHunkHeader(header string) (destStart, oldCount, newCount int, err error) {
	fields := strings.Fields(header)
	if len(fields) < 4 || fields[0] != "@@" ||
		!strings.HasPrefix(fields[1], "-") || !strings.HasPrefix(fields[2], "+") {
		return 0, 0, 0, strconv.ErrSyntax
	}

	_, oldCount, err = parseHunkRange(strings.TrimPrefix(fields[1], "-"))
	if err != nil {
		return 0, 0, 0, err
	}
	destStart, newCount, err = parseHunkRange(strings.TrimPrefix(fields[2], "+"))
	if err != nil {
		return 0, 0, 0, err
	}
	return destStart, oldCount, newCount, nil
}

// parseHunkRange parses "start,count" or a bare "start".
func parseHunkRange(s string) (start, count int, err error) {
	count = 1
	if idx := strings.Index(s, ","); idx >= 0 {
		count, err = strconv.Atoi(s[idx+1:])
		if err != nil {
			return 0, 0, err
		}
		s = s[:idx]
	}
	start, err = strconv.Atoi(s)
	if err != nil {
		return 0, 0, err
	}
	if start < 0 || count < 0 {
		return 0, 0, strconv.ErrRange
	}
	return start, count, nil
}
