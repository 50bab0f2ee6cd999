package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/simonhull/tagstore"
)

func infoFlags() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "show tag version, region bounds, and padding",
		ArgsUsage: "PATH...",
		Action:    info,
	}
}

func info(ctx *cli.Context) error {
	files, err := collectFiles(ctx)
	if err != nil {
		return err
	}

	tags, err := tagstore.OpenMany(ctx.Context, files...)
	if err != nil {
		return err
	}
	defer func() {
		for _, tag := range tags {
			tag.Close()
		}
	}()

	for i, tag := range tags {
		path := files[i]
		if !tag.Exists() {
			fmt.Printf("%s: no ID3v2 tag\n", path)
			continue
		}
		padding, err := tag.Padding()
		if err != nil {
			logger.Errorf("%s: %s", path, err)
			continue
		}
		region := tag.Region()
		fmt.Printf("%s: ID3v2.%d region [%d, %d) padding %d unsync %v\n",
			path, tag.Version(), region.Start, region.End, padding, tag.Unsynchronised())
	}
	return nil
}
