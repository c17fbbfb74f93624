package cmd

import (
	"fmt"
	"html"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/Mechazawa/wave-function-collapse/internal/generator"
	"github.com/Mechazawa/wave-function-collapse/internal/render"
	"github.com/Mechazawa/wave-function-collapse/internal/tileset"
)

// generateHTML creates an HTML file with grids, one per page
func generateHTML(filename string, ts *tileset.Tileset, results []*generator.Result) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create HTML file: %w", err)
	}
	defer file.Close()

	// Write HTML header
	_, err = fmt.Fprintf(file, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0 auto;
            padding: 20px;
            background-color: #1e1e1e;
            color: #ddd;
        }
        .page {
            page-break-after: always;
            padding: 20px;
            margin-bottom: 20px;
        }
        .page:last-child {
            page-break-after: auto;
        }
        h1 {
            font-size: 1.2em;
        }
        .tile-grid table {
            border-collapse: collapse;
            font-family: 'Courier New', monospace;
            font-size: 18px;
            line-height: 1;
        }
        .tile-grid td {
            width: 1.2em;
            height: 1.2em;
            text-align: center;
            padding: 0;
        }
    </style>
</head>
<body>
`, html.EscapeString("Tileset "+ts.Name))
	if err != nil {
		return err
	}

	// Write each grid on its own page
	for i, res := range results {
		_, err = fmt.Fprintf(file, `    <div class="page">
        <h1>Grid #%d</h1>
        <p>%s, seed %d</p>
        %s
    </div>
`, i+1, html.EscapeString(render.Summary(res.Snapshot)), res.Seed, gridToHTML(ts, res))
		if err != nil {
			return err
		}
	}

	// Write HTML footer
	_, err = fmt.Fprintf(file, `</body>
</html>
`)
	return err
}

// gridToHTML converts a grid to an HTML table representation
func gridToHTML(ts *tileset.Tileset, res *generator.Result) string {
	var sb strings.Builder
	sb.WriteString("<div class=\"tile-grid\"><table>")

	snap := res.Snapshot
	for y := range snap.Height {
		sb.WriteString("<tr>")
		for x := range snap.Width {
			tile := ts.Tile(snap.At(x, y).Pattern)
			style := ""
			if c := cssColor(tile.Color); c != "" {
				style = fmt.Sprintf(` style="color: %s"`, c)
			}
			fmt.Fprintf(&sb, "<td title=\"%s\"%s>%s</td>",
				html.EscapeString(tile.Name), style, html.EscapeString(tile.Symbol))
		}
		sb.WriteString("</tr>")
	}

	sb.WriteString("</table></div>")
	return sb.String()
}

// cssColor converts a tile color to CSS. ANSI indices map to the xterm
// 256-color palette.
func cssColor(c string) string {
	if c == "" || strings.HasPrefix(c, "#") {
		return c
	}
	n, err := strconv.Atoi(c)
	if err != nil || n < 0 || n > 255 {
		return ""
	}
	return termenv.ANSI256Color(n).String()
}
