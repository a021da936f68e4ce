package cli

import (
	"os"

	"github.com/julianstephens/weekwise/internal/logger"
	"github.com/julianstephens/weekwise/internal/revision"
	"github.com/julianstephens/weekwise/internal/server"
	"github.com/julianstephens/weekwise/internal/session"
)

type ServeCmd struct {
	Addr  string `help:"Listen address." default:":8080"`
	Model string `help:"Gemini model for intent extraction." default:"gemini-2.0-flash"`
}

// Run serves the scheduling operations over HTTP. Free-form revision is
// only available when GEMINI_API_KEY is set; structured intents always work.
func (c *ServeCmd) Run(ctx *Context) error {
	var extractor revision.IntentExtractor
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		ex, err := revision.NewGenAIExtractor(apiKey, c.Model)
		if err != nil {
			return err
		}
		extractor = ex
	} else {
		logger.Warn("GEMINI_API_KEY not set, free-form revision disabled")
	}

	srv := server.New(session.NewManager(extractor))
	return srv.ListenAndServe(c.Addr)
}
