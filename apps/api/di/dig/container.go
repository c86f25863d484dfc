package dig_container

import (
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/studyplan/apps/api/echo"
	"github.com/trezcool/studyplan/core"
	"github.com/trezcool/studyplan/core/planner"
	emailsvc "github.com/trezcool/studyplan/services/email"
	logsvc "github.com/trezcool/studyplan/services/logger"
	"github.com/trezcool/studyplan/storage/database"
	dummydb "github.com/trezcool/studyplan/storage/database/dummy"
	sqlxrepos "github.com/trezcool/studyplan/storage/database/sqlx"
)

// Storage engines
const (
	EngineMemory   = "memory"
	EnginePostgres = "postgres"
)

// StorageResult holds the planner repository and, for the postgres engine only, the underlying DB.
type StorageResult struct {
	dig.Out
	Repo planner.Repository
	DB   *sqlx.DB
}

func newLogger(conf *core.Config) core.Logger {
	local := logsvc.NewZeroLogger(logsvc.NewZerolog(os.Stdout, conf.Log))
	if conf.RollbarToken == "" {
		return local
	}
	logger := logsvc.NewRollbarLogger(local, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStorage(conf *core.Config, logger core.Logger) (StorageResult, error) {
	switch conf.Storage.Engine {
	case EngineMemory, "":
		var db *dummydb.DB
		var err error
		if conf.Storage.Path != "" {
			db, err = dummydb.OpenFile(conf.Storage.Path)
		} else {
			db, err = dummydb.Open()
		}
		if err != nil {
			return StorageResult{}, errors.Wrap(err, "opening memory storage")
		}
		return StorageResult{Repo: dummydb.NewPlannerRepository(db)}, nil

	case EnginePostgres:
		if err := database.CreateIfNotExist(conf); err != nil {
			return StorageResult{}, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return StorageResult{}, err
		}
		if err = database.Migrate(db); err != nil {
			_ = db.Close()
			return StorageResult{}, err
		}
		logger.Info("database ready", map[string]interface{}{"host": conf.Database.Address(), "name": conf.Database.Name})
		return StorageResult{Repo: sqlxrepos.NewPlannerRepository(db), DB: db}, nil
	}
	return StorageResult{}, errors.Errorf("unknown storage engine %q", conf.Storage.Engine)
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newServerOptions(
	conf *core.Config,
	logger core.Logger,
	svc *planner.Service,
	validate *validator.Validate,
	translator ut.Translator,
) *echoapi.Options {
	return &echoapi.Options{
		Address:    conf.Server.Address,
		Debug:      conf.Debug,
		TestMode:   conf.TestMode,
		Logger:     logger,
		PlannerSvc: svc,
		Validate:   validate,
		Translator: translator,
	}
}

type NewConfigFunc func() *core.Config

// New returns a new dependency injection dig.Container
func New(newConfig NewConfigFunc) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newStorage))
	must(c.Provide(newEmailService))
	must(c.Provide(core.NewValidator))
	must(c.Provide(planner.NewService))
	must(c.Provide(newServerOptions))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
