package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/mpcannot/internal/mpc"
)

func newPartitionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partition <reference-file>",
		Short: "Stage a reference score file into bounded chunks",
		Long: `Partition splits a reference score file (plain or gzip) into numbered
CSV chunks under --chunks-dir, keeping only the chrom, pos, ref, alt,
PolyPhen, and MPC columns. Restaging replaces any chunks already
present, so reruns always reflect the current reference file.

The annotate command stages chunks on demand; partition exists to do
the work up front, once, for a reference shared across runs.`,
		Example: `  mpcannot partition fordist_mpc_values.txt.gz
  mpcannot partition fordist_mpc_values.txt.gz --chunk-size 50000 --chunks-dir /data/mpc/chunks`,
		Args: needsArgs(1, "<reference-file>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			chunkSize := configInt(cmd, "chunk-size", cfgChunkSize)
			chunksDir := configString(cmd, "chunks-dir", cfgChunksDir)
			return runPartition(args[0], chunkSize, chunksDir)
		},
	}

	cmd.Flags().Int("chunk-size", mpc.DefaultChunkSize, "Rows per reference chunk")
	cmd.Flags().String("chunks-dir", "chunks", "Directory for staged reference chunks")

	return cmd
}

func runPartition(refPath string, chunkSize int, chunksDir string) error {
	partitioner, err := mpc.NewPartitioner(chunkSize)
	if err != nil {
		return err
	}
	if logger, err := zap.NewDevelopment(); err == nil {
		defer logger.Sync()
		partitioner.SetLogger(logger)
	}

	written, err := partitioner.Partition(refPath, chunksDir)
	if err != nil {
		return err
	}
	fmt.Printf("Staged %d chunks in %s\n", written, chunksDir)
	return nil
}
