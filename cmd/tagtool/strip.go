package main

import (
	"github.com/urfave/cli/v2"

	"github.com/simonhull/tagstore"
)

func stripFlags() *cli.Command {
	return &cli.Command{
		Name:      "strip",
		Usage:     "remove tag regions entirely",
		ArgsUsage: "PATH...",
		Action:    strip,
	}
}

func strip(ctx *cli.Context) error {
	files, err := collectFiles(ctx)
	if err != nil {
		return err
	}
	dryRun := ctx.Bool("dry-run")

	for _, path := range files {
		if err := stripFile(path, dryRun); err != nil {
			logger.Errorf("%s: %s", path, err)
		}
	}
	return nil
}

func stripFile(path string, dryRun bool) error {
	tag, err := tagstore.Open(path)
	if err != nil {
		return err
	}
	defer tag.Close()

	if !tag.Exists() {
		logger.Debugf("%s: no tag", path)
		return nil
	}

	region := tag.Region()
	if dryRun {
		logger.Infof("%s: would remove %d tag bytes", path, region.Len())
		return nil
	}
	if err := tag.Strip(); err != nil {
		return err
	}
	logger.Infof("%s: removed %d tag bytes", path, region.Len())
	return nil
}
