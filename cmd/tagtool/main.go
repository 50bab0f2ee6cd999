// Command tagtool inspects and maintains the ID3v2 tag regions of audio
// files without touching frame contents: it reports region bounds, resizes
// padding, and strips tags entirely.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/simonhull/tagstore"
	"github.com/simonhull/tagstore/internal/logging"
)

var logger = logging.New("tagtool")

func main() {
	app := &cli.App{
		Name:    "tagtool",
		Usage:   "inspect and resize ID3v2 tag regions",
		Version: tagstore.GetVersion(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "report what would change without writing",
			},
		},
		Before: func(ctx *cli.Context) error {
			if ctx.Bool("verbose") {
				logger.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			infoFlags(),
			padFlags(),
			stripFlags(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatal(err)
	}
}

// collectFiles expands the command arguments into a file list. A directory
// argument contributes its immediate .mp3 entries; subdirectories are not
// descended into. Files named explicitly are taken as given, whatever their
// extension.
func collectFiles(ctx *cli.Context) ([]string, error) {
	if ctx.Args().Len() == 0 {
		return nil, fmt.Errorf("PATH is needed")
	}
	var files []string
	for _, arg := range ctx.Args().Slice() {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.EqualFold(filepath.Ext(entry.Name()), ".mp3") {
				files = append(files, filepath.Join(arg, entry.Name()))
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no audio files found")
	}
	return files, nil
}
