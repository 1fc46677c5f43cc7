package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/atomicstack/threadview/internal/format/table"
	"github.com/atomicstack/threadview/internal/rootthread"
	"github.com/atomicstack/threadview/internal/source"
	"github.com/atomicstack/threadview/internal/state"
	"github.com/atomicstack/threadview/internal/thread"
)

const hiddenUser = "(hidden)"

var listColumns = []table.Column{
	{Header: "ID", MaxWidth: 24},
	{Header: "USER", MaxWidth: 24},
	{Header: "UPDATED"},
	{Header: "REPLIES", Align: table.AlignRight},
	{Header: "LOCATION", Align: table.AlignRight},
	{Header: "TEXT", MaxWidth: 48},
}

// List prints the threads of cfg.ItemsPath as a table, applying the same
// sort, search and selection as the interactive viewer.
func List(cfg Config, w io.Writer) error {
	items, err := source.Load(cfg.ItemsPath)
	if err != nil {
		return err
	}
	store := state.NewStore(initialState(cfg))
	store.AddAnnotations(items)
	controller := rootthread.New(store)
	defer controller.Close()

	rows := listRows(controller.Thread())
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "no annotations")
		return err
	}
	for _, line := range table.Format(listColumns, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func initialState(cfg Config) state.State {
	st := state.State{SortMode: cfg.SortMode, SearchQuery: cfg.Query}
	if len(cfg.SelectIDs) > 0 {
		st.SelectedIDs = make(map[string]bool, len(cfg.SelectIDs))
		for _, id := range cfg.SelectIDs {
			st.SelectedIDs[id] = true
		}
	}
	return st
}

// listRows walks every top-level thread in full. Collapsed threads are
// expanded; subtrees with nothing visible are skipped.
func listRows(root *thread.Node) [][]string {
	if root == nil {
		return nil
	}
	var rows [][]string
	var visit func(node *thread.Node, depth int)
	visit = func(node *thread.Node, depth int) {
		if !node.Visible && !node.HasVisibleDescendant() {
			return
		}
		rows = append(rows, listRow(thread.Row{Node: node, Depth: depth}))
		for _, child := range node.Children {
			visit(child, depth+1)
		}
	}
	for _, top := range root.Children {
		visit(top, 0)
	}
	return rows
}

func listRow(row thread.Row) []string {
	node := row.Node
	cells := []string{strings.Repeat("  ", row.Depth) + node.ID, hiddenUser, "", "", "", ""}
	item := node.Item
	if item == nil || !node.Visible {
		return cells
	}
	cells[1] = item.Username()
	if stamp := item.Updated; !stamp.IsZero() {
		cells[2] = humanize.Time(stamp)
	} else if !item.Created.IsZero() {
		cells[2] = humanize.Time(item.Created)
	}
	if row.Depth == 0 {
		cells[3] = strconv.Itoa(node.ReplyCount)
		if item.Location != nil {
			cells[4] = humanize.Comma(int64(*item.Location))
		}
	}
	text, _, _ := strings.Cut(strings.TrimSpace(item.Text), "\n")
	cells[5] = text
	return cells
}
