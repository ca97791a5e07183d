package main

import (
	"github.com/rs/zerolog/log"

	"github.com/storepilot/storepilot/agent/extract"
	llmx "github.com/storepilot/storepilot/agent/llm"
	"github.com/storepilot/storepilot/agent/orchestrator"
	"github.com/storepilot/storepilot/agent/snapshot"
	toolx "github.com/storepilot/storepilot/agent/tool"
	configx "github.com/storepilot/storepilot/pkg/config"
	logx "github.com/storepilot/storepilot/pkg/logger"
	"github.com/storepilot/storepilot/server"
	storex "github.com/storepilot/storepilot/store"
)

func main() {
	logCfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*logCfg)

	dbCfg := configx.MustNew[storex.Config]("DB")
	db, err := storex.NewPostgres(*dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open postgres")
	}
	defer db.Close()

	llmCfg := configx.MustNew[llmx.Config]("LLM")
	chatModel, err := llmx.NewClient(*llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build chat model client")
	}
	extractorModel, err := llmx.NewClient(llmCfg.ForExtractor())
	if err != nil {
		log.Fatal().Err(err).Msg("build extractor client")
	}

	toolCfg := configx.MustNew[toolx.Config]("STORE")
	registry := toolx.NewRegistry(db, extract.New(extractorModel), *toolCfg)

	agentCfg := configx.MustNew[orchestrator.Config]("AGENT")
	agent, err := orchestrator.New(snapshot.NewBuilder(db), chatModel, registry, *agentCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build agent")
	}

	srvCfg := configx.MustNew[server.Config]("SERVER")
	router := server.NewRouter(server.NewHandler(agent), *srvCfg)

	log.Info().Str("port", srvCfg.Port).Msg("storepilot agent listening")
	if err := router.Run(":" + srvCfg.Port); err != nil {
		log.Fatal().Err(err).Msg("http server exited")
	}
}
