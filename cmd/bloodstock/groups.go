package main

import (
	"github.com/bloodstock/bloodstock/internal/bloodstock"
	"github.com/bloodstock/bloodstock/pkg/api"
	"github.com/urfave/cli/v2"
)

func groupsCommand() *cli.Command {
	return &cli.Command{
		Name:   "groups",
		Usage:  "List blood groups and the codes the API uses for them",
		Action: groupsAction,
	}
}

func groupsAction(c *cli.Context) error {
	bloodstock.NewPresenter(c.App.Writer).BloodGroups(api.BloodGroups())
	return nil
}
