package main

import (
	"os"

	"github.com/spf13/cobra"

	"Streamflix/internal/catalog"
	"Streamflix/pkg/kit"
)

var src catalog.SourceConfig

var rootCmd = &cobra.Command{
	Use:          "catalogctl",
	Short:        "Inspect a Streamflix catalog dataset",
	Long:         "Validate, page through and search a catalog dataset without running the service",
	SilenceUsage: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&src.Kind, "source", kit.Getenv("DATASET_SOURCE", catalog.SourceEmbedded), "dataset source: embedded, file, s3 or postgres")
	f.StringVar(&src.Path, "path", os.Getenv("DATASET_PATH"), "dataset file for --source=file")
	f.StringVar(&src.Bucket, "bucket", os.Getenv("S3_BUCKET"), "bucket for --source=s3")
	f.StringVar(&src.Key, "key", kit.Getenv("S3_KEY", "catalog/movies.json"), "object key for --source=s3")
	f.StringVar(&src.S3.Endpoint, "s3-endpoint", os.Getenv("S3_ENDPOINT"), "S3-compatible endpoint")
	f.StringVar(&src.S3.Region, "s3-region", kit.Getenv("S3_REGION", "eu-central-1"), "S3 region")
	f.StringVar(&src.DatabaseURL, "database-url", os.Getenv("DATABASE_URL"), "postgres url for --source=postgres")

	src.S3.AccessKey = os.Getenv("S3_ACCESS_KEY")
	src.S3.SecretKey = os.Getenv("S3_SECRET_KEY")

	rootCmd.AddCommand(validateCmd, categoriesCmd, pageCmd, searchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openStore(cmd *cobra.Command) (*catalog.Store, error) {
	return catalog.Open(cmd.Context(), src)
}
