package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/mpcannot/internal/annotate"
	"github.com/inodb/mpcannot/internal/filter"
	"github.com/inodb/mpcannot/internal/mpc"
	"github.com/inodb/mpcannot/internal/mutation"
	"github.com/inodb/mpcannot/internal/output"
	"github.com/inodb/mpcannot/internal/pathway"
)

// annotateOptions carries the filter and pathway settings for a run.
// Filter values are kept raw; each one may name a file, a
// comma-separated list, or a single literal.
type annotateOptions struct {
	pathwaysDir string
	pathway     string
	patient     string
	gene        string
	consequence string
	pph2        string
	adjusted    string
	minMPC      string

	chunkSize int
	chunksDir string
	outputDir string
	logsDir   string
}

func newAnnotateCmd() *cobra.Command {
	var opts annotateOptions

	cmd := &cobra.Command{
		Use:   "annotate <mutations-file> <reference>",
		Short: "Annotate patient mutations and export curated reports",
		Long: `Annotate joins patient mutation calls against per-variant MPC scores
and PolyPhen2 predictions, reclassifies consequences, curates the
result, and writes timestamped CSV reports plus an audit log.

The mutations file is tab-separated (plain or gzip) with child_id, Chr,
Position, Ref, Alt, consequence, and HGNC_symbol columns. The reference
is either a raw score file, partitioned into chunks under --chunks-dir
on first use, or a directory of previously staged chunks.

Filter flags accept a file of values (one per line), a comma-separated
list, or a single literal.`,
		Example: `  mpcannot annotate trio_mutations.txt fordist_mpc_values.txt.gz
  mpcannot annotate trio_mutations.txt chunks/ --pathways pathways/ --pathway wnt
  mpcannot annotate trio_mutations.txt chunks/ --patient probands.txt --min-mpc 2`,
		Args: needsArgs(2, "<mutations-file> <reference>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.chunkSize = configInt(cmd, "chunk-size", cfgChunkSize)
			opts.chunksDir = configString(cmd, "chunks-dir", cfgChunksDir)
			opts.outputDir = configString(cmd, "output-dir", cfgOutputDir)
			opts.logsDir = configString(cmd, "logs-dir", cfgLogsDir)
			return runAnnotate(args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.pathwaysDir, "pathways", "", "Directory of pathway gene annotation files")
	cmd.Flags().StringVar(&opts.pathway, "pathway", "", "Pathways to load (file, comma-separated list, or name)")
	cmd.Flags().StringVar(&opts.patient, "patient", "", "Keep only these patient identifiers")
	cmd.Flags().StringVar(&opts.gene, "gene", "", "Keep only these gene symbols")
	cmd.Flags().StringVar(&opts.consequence, "consequence", "", "Keep only these raw consequences")
	cmd.Flags().StringVar(&opts.pph2, "pph2", "", "Keep only these PolyPhen2 prediction labels")
	cmd.Flags().StringVar(&opts.adjusted, "adjusted", "", "Keep only these adjusted consequences")
	cmd.Flags().StringVar(&opts.minMPC, "min-mpc", "", "Keep only records with an MPC score at or above this value")
	cmd.Flags().Int("chunk-size", mpc.DefaultChunkSize, "Rows per reference chunk when partitioning")
	cmd.Flags().String("chunks-dir", "chunks", "Directory for staged reference chunks")
	cmd.Flags().String("output-dir", "output", "Directory for exported reports")
	cmd.Flags().String("logs-dir", "logs", "Directory for audit logs")

	return cmd
}

func runAnnotate(mutationsPath, refPath string, opts annotateOptions) error {
	if opts.pathway != "" && opts.pathwaysDir == "" {
		return usageError{errors.New("--pathway requires --pathways")}
	}
	if opts.minMPC != "" {
		if _, err := strconv.ParseFloat(opts.minMPC, 64); err != nil {
			return usageError{fmt.Errorf("invalid MPC threshold %q", opts.minMPC)}
		}
	}

	run := output.NewRunInfo()
	audit, err := output.NewAudit(opts.logsDir, run)
	if err != nil {
		return err
	}
	defer audit.Close()
	logger := audit.Logger()
	audit.Parameters(mutationsPath, opts.pathwaysDir, refPath)

	// Resolve every filter up front so a bad filter file fails the run
	// before any reference work happens.
	fieldSpecs, err := resolveFieldFilters(opts)
	if err != nil {
		return err
	}

	records, skipped, err := readMutations(mutationsPath)
	if err != nil {
		return err
	}
	logger.Info("read mutations",
		zap.String("file", mutationsPath),
		zap.Int("records", len(records)),
		zap.Int("skipped", skipped))

	var genePathways map[string][]string
	if opts.pathwaysDir != "" {
		spec, err := filter.Resolve(opts.pathway)
		if err != nil {
			return err
		}
		files, err := pathway.Discover(opts.pathwaysDir, spec)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no pathway annotation files in %s", opts.pathwaysDir)
		}
		tables, err := pathway.LoadAll(files)
		if err != nil {
			return err
		}
		genePathways = pathway.GenePathways(tables)
		logger.Info("loaded pathway annotations",
			zap.Int("pathways", len(tables)),
			zap.Int("genes", len(genePathways)))
	}

	rows := mutation.BuildMatrix(records, genePathways)
	logger.Info("built mutation matrix", zap.Int("rows", len(rows)))

	partitioner, err := mpc.NewPartitioner(opts.chunkSize)
	if err != nil {
		return err
	}
	partitioner.SetLogger(logger)
	chunkDir, err := partitioner.Ensure(refPath, opts.chunksDir)
	if err != nil {
		return err
	}

	chunks, err := mpc.OpenChunkSet(chunkDir)
	if err != nil {
		return err
	}

	annotator := annotate.NewAnnotator()
	annotator.SetLogger(logger)
	annotated, err := annotator.Annotate(rows, chunks)
	if err != nil {
		return err
	}

	annotated, err = applyFilters(annotated, fieldSpecs, opts.minMPC, audit)
	if err != nil {
		return err
	}

	annotationsPath, err := output.ExportAnnotations(opts.outputDir, run, annotated)
	if err != nil {
		return err
	}
	audit.Export("annotations", annotationsPath, len(annotated))
	fmt.Printf("Wrote %d annotated records to %s\n", len(annotated), annotationsPath)

	if genePathways != nil {
		matrix := pathway.NewMatrix(rows)
		matrixPath, err := output.ExportMatrix(opts.outputDir, run, annotated, matrix)
		if err != nil {
			return err
		}
		audit.Export("pathway matrix", matrixPath, len(annotated))
		fmt.Printf("Wrote pathway membership matrix to %s\n", matrixPath)
	}

	fmt.Printf("Audit log: %s\n", audit.Path())
	return nil
}

func readMutations(path string) ([]*mutation.Record, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open mutations file: %w", err)
	}
	defer f.Close()

	parser, err := mutation.NewParser(f)
	if err != nil {
		return nil, 0, err
	}
	records, err := parser.ReadAll()
	if err != nil {
		return nil, 0, err
	}
	return records, parser.Skipped(), nil
}

// fieldSpec pairs a filterable field with its resolved spec.
type fieldSpec struct {
	field string
	spec  *filter.Spec
}

func resolveFieldFilters(opts annotateOptions) ([]fieldSpec, error) {
	fields := []struct {
		field string
		raw   string
	}{
		{filter.FieldPatient, opts.patient},
		{filter.FieldGene, opts.gene},
		{filter.FieldConsequence, opts.consequence},
		{filter.FieldPph2, opts.pph2},
		{filter.FieldAdjusted, opts.adjusted},
	}

	specs := make([]fieldSpec, 0, len(fields))
	for _, f := range fields {
		spec, err := filter.Resolve(f.raw)
		if err != nil {
			return nil, fmt.Errorf("%s filter: %w", f.field, err)
		}
		specs = append(specs, fieldSpec{field: f.field, spec: spec})
	}
	return specs, nil
}

// applyFilters runs the field filters in a fixed order, then the MPC
// threshold, recording each applied filter in the audit log.
func applyFilters(records []*annotate.Record, fieldSpecs []fieldSpec, minMPC string, audit *output.Audit) ([]*annotate.Record, error) {
	for _, fs := range fieldSpecs {
		out, applied, err := filter.Apply(records, fs.field, fs.spec)
		if err != nil {
			return nil, err
		}
		audit.Filter(applied)
		records = out
	}

	out, applied, err := filter.ApplyMPCThreshold(records, minMPC)
	if err != nil {
		return nil, err
	}
	audit.Filter(applied)
	return out, nil
}
