package main

import (
	"video-analyzer/shared/ai"
	"video-analyzer/shared/config"
	"video-analyzer/shared/httpapi"
	"video-analyzer/shared/lambdaproxy"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	// Key and model come from the function's environment on every invocation
	analyzer := ai.NewAnalyzer(config.ModelFromEnv(), config.APIKeyFromEnv, ai.NewGeminiStreamer)
	h := httpapi.NewAnalyzeHandler(analyzer, nil)

	lambda.Start(lambdaproxy.Adapter(h))
}
