// Package main is the entry point for the langtrends CLI.
package main

import (
	"github.com/huangsam/langtrends/cmd"
	"github.com/huangsam/langtrends/internal/contract"
	"github.com/huangsam/langtrends/internal/store"
)

func main() {
	defer store.CloseStores()

	cmd.SetStoreManager(store.Manager)

	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Cannot run langtrends", err)
	}
}
