// Command brushwork evaluates a brush script and reports the meshes it
// produces.
//
// Usage:
//
//	brushwork [-config file] [-kernel bsp|sdfx] [-log-level level] [-dump] [-carve name] script.bw
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/chazu/brushwork/pkg/config"
	"github.com/chazu/brushwork/pkg/csg"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options are the command-line flags. Non-empty values override the file.
type options struct {
	configPath string
	kernel     string
	logLevel   string
	dump       bool
	carve      string
}

func parseFlags(args []string, stderr io.Writer) (options, string, error) {
	var o options
	fs := flag.NewFlagSet("brushwork", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "TOML settings file")
	fs.StringVar(&o.kernel, "kernel", "", "geometry kernel, one of: bsp, sdfx")
	fs.StringVar(&o.logLevel, "log-level", "", "logging level, one of: panic, fatal, error, warn, info, debug, trace")
	fs.BoolVar(&o.dump, "dump", false, "print the BSP tree of every root")
	fs.StringVar(&o.carve, "carve", "", "carve the named brush out of every root")
	if err := fs.Parse(args); err != nil {
		return o, "", err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return o, "", fmt.Errorf("expected one script file, got %d arguments", fs.NArg())
	}
	return o, fs.Arg(0), nil
}

func loadConfig(o options) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}
	if o.kernel != "" {
		cfg.Kernel.Name = o.kernel
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, cfg.Validate()
}

func run(args []string, stdout, stderr io.Writer) int {
	o, script, err := parseFlags(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	log := config.NewLogger(cfg.Log.Level)
	log.Out = stderr
	csg.SetLogger(log)

	source, err := os.ReadFile(script)
	if err != nil {
		log.WithError(err).Error("read script")
		return 1
	}

	app, err := NewApp(cfg, log)
	if err != nil {
		log.WithError(err).Error("start")
		return 1
	}
	result := app.Evaluate(string(source))
	for _, w := range result.Warnings {
		log.Warn(w.Message)
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			log.WithField("line", e.Line).Error(e.Message)
		}
		return 1
	}

	var vertices, triangles int
	for _, m := range result.Meshes {
		vertices += len(m.Vertices) / 3
		triangles += len(m.Indices) / 3
		log.WithFields(logrus.Fields{
			"part":      m.PartName,
			"vertices":  len(m.Vertices) / 3,
			"triangles": len(m.Indices) / 3,
		}).Debug("mesh")
	}
	log.WithFields(logrus.Fields{
		"kernel":    cfg.Kernel.Name,
		"meshes":    len(result.Meshes),
		"vertices":  vertices,
		"triangles": triangles,
	}).Info("evaluated")

	if o.dump {
		if err := app.DumpTrees(stdout, result.Graph); err != nil {
			log.WithError(err).Error("dump")
			return 1
		}
	}
	if o.carve != "" {
		sc, batch, err := app.Carve(result.Graph, o.carve)
		if err != nil {
			log.WithError(err).Error("carve")
			return 1
		}
		fmt.Fprintf(stdout, "carve %s: %d brushes replaced by %d, scene holds %d\n",
			o.carve, len(batch.Deleted), len(batch.Added), sc.Len())
	}
	return 0
}
