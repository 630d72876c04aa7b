// Command glove-train runs the polarity-forced GloVe optimizer over a
// precomputed co-occurrence stream and writes the resulting word
// vectors to disk.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	glove "github.com/koc-lab/imparting-interpretability"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("glove-train", pflag.ContinueOnError)
	configFile := flags.String("config", "", "optional YAML/JSON/TOML config file")
	glove.BindFlags(flags, glove.NewViperWithDefaults())

	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := glove.Load(flags, *configFile)
	if err != nil {
		return err
	}

	logger, err := glove.NewLogger(cfg.LogConfigFile)
	if err != nil {
		return err
	}

	vocab, err := glove.LoadVocabulary(cfg.VocabFile)
	if err != nil {
		return err
	}
	logger.Infof("loaded vocabulary: %d tokens", vocab.Size())

	store := glove.NewParameterStore(vocab.Size(), cfg.VectorSize)

	loader := glove.NewInitLoader()
	if cfg.RandomInit {
		loader.Random(store, cfg.Seed)
		logger.Infof("initialized W randomly with seed %d", cfg.Seed)
	} else {
		if err := loader.LoadFile(store, cfg.InitFile); err != nil {
			return err
		}
		logger.Infof("loaded initial W from %s", cfg.InitFile)
	}

	table, err := glove.BuildForcingTable(cfg, afero.NewOsFs(), vocab.Size(), cfg.VectorSize)
	if err != nil {
		return err
	}
	logger.Infof("forcing table: %d constrained dimensions", table.NumDims())

	reader, err := glove.NewCoOccurReader(cfg.InputFile, cfg.UseMmap)
	if err != nil {
		return err
	}
	logger.Infof("co-occurrence stream: %d records", reader.NumRecords())

	trainer := glove.NewTrainer(cfg, store, reader, table, logger)
	finalCost, err := trainer.Run()
	if err != nil {
		return err
	}
	logger.Infof("training complete, final pass cost %.6f", finalCost)

	return save(cfg, store, vocab)
}

func save(cfg *glove.Config, store glove.ParameterStore, vocab *glove.Vocabulary) error {
	exp := glove.NewExporter(cfg)

	if cfg.UseBinary == 1 || cfg.UseBinary == 2 {
		if err := exp.WriteBinary(store, cfg.SaveFile+".bin"); err != nil {
			return err
		}
		if cfg.SaveGradsq {
			if err := dumpGradsq(store, cfg.GradsqFile+".bin"); err != nil {
				return err
			}
		}
	}
	if cfg.UseBinary == 0 || cfg.UseBinary == 2 {
		if err := exp.WriteText(store, vocab, cfg.SaveFile+".txt"); err != nil {
			return err
		}
	}
	return nil
}

func dumpGradsq(store glove.ParameterStore, path string) error {
	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		return glove.IOError(path, err)
	}
	defer f.Close()
	if err := store.DumpG(f); err != nil {
		return glove.IOError(path, err)
	}
	return nil
}
