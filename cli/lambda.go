package cli

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/go-barry/pokedex"
	"github.com/urfave/cli/v2"
)

var lambdaStart = func(handler pokedex.LambdaFunc) {
	lambda.Start(handler)
}

var LambdaCommand = &cli.Command{
	Name:  "lambda",
	Usage: "Serve the Pokédex from AWS Lambda behind an API Gateway HTTP API",
	Flags: []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		_, handler := pokedex.BuildServer(pokedex.RuntimeConfig{
			Env:        "prod",
			ConfigPath: c.String("config"),
		})
		lambdaStart(pokedex.LambdaHandler(handler))
		return nil
	},
}
