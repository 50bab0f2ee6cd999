package main

import (
	"bytes"

	"github.com/urfave/cli/v2"

	"github.com/simonhull/tagstore"
)

func padFlags() *cli.Command {
	return &cli.Command{
		Name:      "pad",
		Usage:     "rewrite tags with a fixed amount of padding",
		ArgsUsage: "PATH...",
		Action:    pad,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "size",
				Aliases: []string{"s"},
				Usage:   "padding size in bytes",
				Value:   2048,
			},
		},
	}
}

func pad(ctx *cli.Context) error {
	files, err := collectFiles(ctx)
	if err != nil {
		return err
	}
	size := ctx.Int("size")
	dryRun := ctx.Bool("dry-run")

	for _, path := range files {
		if err := padFile(path, size, dryRun); err != nil {
			logger.Errorf("%s: %s", path, err)
		}
	}
	return nil
}

func padFile(path string, size int, dryRun bool) error {
	tag, err := tagstore.Open(path)
	if err != nil {
		return err
	}
	defer tag.Close()

	if !tag.Exists() {
		logger.Debugf("%s: no tag, skipping", path)
		return nil
	}

	payload, err := tag.Bytes()
	if err != nil {
		return err
	}
	// The zero tail of the payload is the current padding; the new padding
	// replaces it.
	frames := bytes.TrimRight(payload, "\x00")

	if dryRun {
		logger.Infof("%s: would rewrite %d frame bytes with %d bytes of padding",
			path, len(frames), size)
		return nil
	}

	opts := []tagstore.ReplaceOption{tagstore.WithPadding(size)}
	if tag.Unsynchronised() {
		opts = append(opts, tagstore.WithUnsynchronisation())
	}
	if err := tag.Replace(frames, opts...); err != nil {
		return err
	}
	region := tag.Region()
	logger.Infof("%s: region now [%d, %d)", path, region.Start, region.End)
	return nil
}
