// Package gen implements the batch class-generation subcommand: given a
// directory of class-description JSON files, it runs the Class
// Assembler over each one concurrently and writes the generated C
// source into an output directory.
//
// The engine itself (internal/bind.Assemble) processes exactly one
// class per call, synchronously. This package is the outer driver that
// fans that single-class call out across many classes, the same shape
// golang-open2opaque's rewrite subcommand uses to walk many Go packages
// concurrently.
package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"flag"
	log "github.com/golang/glog"
	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"

	"github.com/kitware/vtkwrap/internal/bind"
	syncset "github.com/kitware/vtkwrap/internal/concurrent"
	"github.com/kitware/vtkwrap/internal/errutil"
	"github.com/kitware/vtkwrap/internal/ignore"
	"github.com/kitware/vtkwrap/internal/profile"
	"github.com/kitware/vtkwrap/internal/schemaio"
	"github.com/kitware/vtkwrap/internal/target"
)

// Cmd implements the "generate" subcommand: read every *.class.json
// file in --input_dir, skip anything --ignore_list names, and write one
// generated .cxx file per class to --output_dir.
type Cmd struct {
	inputDir   string
	outputDir  string
	ignoreList string
	jobs       int
}

// Name implements subcommand.Command.
func (*Cmd) Name() string { return "generate" }

// Synopsis implements subcommand.Command.
func (*Cmd) Synopsis() string { return "generate C wrapper source for a directory of class descriptions" }

// Usage implements subcommand.Command.
func (*Cmd) Usage() string {
	return `Usage: vtkwrap generate --input_dir=DIR --output_dir=DIR [--ignore_list=FILE] [--jobs=N]
`
}

// SetFlags implements subcommand.Command.
func (cmd *Cmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.inputDir, "input_dir", "", "directory of *.class.json class-description files")
	f.StringVar(&cmd.outputDir, "output_dir", "", "directory to write generated .cxx files into")
	f.StringVar(&cmd.ignoreList, "ignore_list", "", "optional file listing class-description files/directories to skip")
	f.IntVar(&cmd.jobs, "jobs", 0, "maximum concurrent class generations (0 = runtime.GOMAXPROCS)")
}

// Execute implements subcommand.Command.
func (cmd *Cmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if cmd.inputDir == "" || cmd.outputDir == "" {
		fmt.Fprintln(os.Stderr, "generate: --input_dir and --output_dir are required")
		return subcommands.ExitUsageError
	}
	if err := cmd.run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "generate: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// Command returns an initialized Cmd for registration with the
// subcommands package.
func Command() *Cmd { return &Cmd{} }

func (cmd *Cmd) run(ctx context.Context) (err error) {
	defer errutil.Annotatef(&err, "generate %s -> %s", cmd.inputDir, cmd.outputDir)

	ctx = profile.NewContext(ctx)
	defer func() { log.Infof("%s", profile.Dump(ctx)) }()

	skip, err := loadIgnoreList(cmd.ignoreList)
	if err != nil {
		return err
	}

	files, err := classDescriptionFiles(cmd.inputDir, skip)
	if err != nil {
		return err
	}
	profile.Add(ctx, "discovered files")
	if err := os.MkdirAll(cmd.outputDir, 0o755); err != nil {
		return err
	}

	seen := syncset.New()
	p := target.Default

	eg, egCtx := errgroup.WithContext(ctx)
	limit := cmd.jobs
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	eg.SetLimit(limit)

	for _, f := range files {
		f := f
		eg.Go(func() error {
			select {
			case <-egCtx.Done():
				return egCtx.Err()
			default:
			}
			return cmd.generateOne(f, seen, p)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	profile.Add(ctx, "generated all classes")
	return nil
}

func (cmd *Cmd) generateOne(path string, seen *syncset.Set, p target.Profile) (err error) {
	defer errutil.Annotatef(&err, "generating %s", path)

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	class, err := schemaio.Decode(f)
	if err != nil {
		return err
	}
	if !seen.Add(class.Name) {
		log.Warningf("duplicate class %q from %s, generating anyway", class.Name, path)
	}

	asm := bind.Assemble(class, class.Methods, p)

	out := filepath.Join(cmd.outputDir, class.Name+"Wrap.cxx")
	return os.WriteFile(out, []byte(asm.Source), 0o644)
}

// loadIgnoreList returns an empty (always-false) list when path is "".
func loadIgnoreList(path string) (*ignore.List, error) {
	if path == "" {
		return &ignore.List{}, nil
	}
	return ignore.LoadList(path)
}

// classDescriptionFiles walks dir for *.class.json files not excluded by
// skip, returning them in a deterministic (sorted) order so batch output
// doesn't depend on directory-walk order.
func classDescriptionFiles(dir string, skip *ignore.List) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if skip.Contains(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".class.json") {
			return nil
		}
		if skip.Contains(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
