package cli

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
	"github.com/vietddude/snapshot-recovery/internal/control"
)

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Run the Lambda runtime loop (default)",
	Args:  cobra.NoArgs,
	RunE:  runLambda,
}

func runLambda(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	h, err := control.NewFromConfig(context.Background(), cfg)
	if err != nil {
		return err
	}

	// Blocks for the lifetime of the execution environment.
	lambda.Start(h.Handle)
	return nil
}
