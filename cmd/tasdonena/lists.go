package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tasdonena/admin-console/pkg/listview"
)

type listFlags struct {
	query    string
	page     int
	pageSize int
	xlsx     string
}

func (f *listFlags) register(cmd *cobra.Command, exportable bool) {
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "case-insensitive search")
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "rows per page (10, 25 or 50)")
	if exportable {
		cmd.Flags().StringVar(&f.xlsx, "xlsx", "", "write every matching row to this spreadsheet")
	}
}

func applyListFlags[T any](c *listview.Controller[T], f listFlags) error {
	if f.pageSize != 0 {
		if err := c.SetPageSize(f.pageSize); err != nil {
			return withCode(exitUsage, err)
		}
	}
	c.SetQuery(f.query)
	c.SetPage(f.page)
	return nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, withCode(exitUsage, fmt.Errorf("invalid id %q", arg))
	}
	return id, nil
}

func notFound(kind string, id int) error {
	return withCode(exitUsage, fmt.Errorf("no %s with id %d", kind, id))
}

func emptyMessage(kind listview.EmptyKind, noRecords, noMatches string) string {
	switch kind {
	case listview.EmptyNoRecords:
		return noRecords
	case listview.EmptyNoMatches:
		return noMatches
	}
	return ""
}

var errWrongState = errors.New("action not available")

func wrongState(action, name, status string) error {
	return withCode(exitUsage, fmt.Errorf("%w: cannot %s %s while %s", errWrongState, action, name, status))
}
