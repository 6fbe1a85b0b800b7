package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"modelgate/internal/dataset"
	"modelgate/internal/logging"
)

var exportFlags struct {
	out        string
	database   string
	collection string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the source MongoDB collection to CSV for training",
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVarP(&exportFlags.out, "out", "o", "artifact/data_ingestion/data.csv", "Output CSV path")
	f.StringVar(&exportFlags.database, "database", "", "Database name (default from config)")
	f.StringVar(&exportFlags.collection, "collection", "", "Collection name (default from config)")
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	mc := cfg.Mongo
	if exportFlags.database != "" {
		mc.Database = exportFlags.database
	}
	if exportFlags.collection != "" {
		mc.Collection = exportFlags.collection
	}

	uri, err := mc.MongoURI()
	if err != nil {
		return err
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer client.Disconnect(ctx)

	exporter := &dataset.Exporter{
		Client:     client,
		Database:   mc.Database,
		Collection: mc.Collection,
		Logger:     logging.New("dataset"),
	}
	rows, err := exporter.ExportFile(ctx, exportFlags.out)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows from %s.%s to %s\n",
		rows, mc.Database, mc.Collection, exportFlags.out)
	return nil
}
