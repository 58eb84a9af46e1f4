package main

import (
	"fmt"
	"os"

	"github.com/Brave-new-w0rld/streamlit-finance/cmd/categories"
	"github.com/Brave-new-w0rld/streamlit-finance/cmd/categorize"
	"github.com/Brave-new-w0rld/streamlit-finance/cmd/keywords"
	"github.com/Brave-new-w0rld/streamlit-finance/cmd/learn"
	"github.com/Brave-new-w0rld/streamlit-finance/cmd/rates"
	"github.com/Brave-new-w0rld/streamlit-finance/cmd/root"
	"github.com/Brave-new-w0rld/streamlit-finance/cmd/summary"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(categories.Cmd)
	root.Cmd.AddCommand(keywords.Cmd)
	root.Cmd.AddCommand(learn.Cmd)
	root.Cmd.AddCommand(rates.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
