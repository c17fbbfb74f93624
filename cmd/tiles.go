package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Mechazawa/wave-function-collapse/internal/grid"
	"github.com/Mechazawa/wave-function-collapse/internal/tileset"
)

func init() {
	tilesCmd := &cobra.Command{
		Use:   "tiles",
		Short: "List the tiles of a tileset",
		Long: `List every tile variant of a tileset with its weight, sockets and the
number of tiles it may have as a neighbour on each side.

Examples:
  wfc tiles
  wfc tiles --tiles pipes.yaml
  wfc tiles --sample island.txt --wrap`,
		Args: cobra.NoArgs,
		RunE: runTiles,
	}

	addTilesetFlags(tilesCmd)
	tilesCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(tilesCmd)
}

func runTiles(cmd *cobra.Command, args []string) error {
	ts, err := loadTileset()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Tileset %s: %d tiles\n", ts.Name, len(ts.Tiles))
	fmt.Fprintln(out, tileTable(ts, useColor(out)))
	return nil
}

// tileTable lays the tiles of ts out as a table.
func tileTable(ts *tileset.Tileset, color bool) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ID", "NAME", "SYMBOL", "WEIGHT", "SOCKETS", "NEIGHBOURS")

	for id, tile := range ts.Tiles {
		var counts []string
		for _, d := range grid.Directions {
			counts = append(counts, strconv.Itoa(ts.Table.Support(id, d).Count()))
		}
		t.Row(
			strconv.Itoa(id),
			tile.Name,
			tile.Symbol,
			strconv.FormatFloat(tile.Weight, 'g', -1, 64),
			strings.Join(tile.Sockets[:], " "),
			strings.Join(counts, " "),
		)
	}

	if color {
		header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		cell := lipgloss.NewStyle().Padding(0, 1)
		t = t.BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#16858E"))).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return header
				}
				if col == 2 && ts.Tiles[row].Color != "" {
					return cell.Foreground(lipgloss.Color(ts.Tiles[row].Color))
				}
				return cell
			})
	} else {
		cell := lipgloss.NewStyle().Padding(0, 1)
		t = t.StyleFunc(func(row, col int) lipgloss.Style { return cell })
	}
	return t.String()
}
