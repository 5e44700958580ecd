package command

import (
	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-docgen/docgen"
	"github.com/goliatone/go-docgen/query"
	"github.com/goliatone/go-errors"
)

// RegisterHandlers wires document commands and queries to go-command.
func RegisterHandlers(reg *gcmd.Registry, svc docgen.Service) ([]dispatcher.Subscription, error) {
	if svc == nil {
		return nil, errors.New("document service is required", errors.CategoryValidation).
			WithTextCode("SERVICE_REQUIRED")
	}

	gen := NewGenerateDocumentHandler(svc)
	cleanup := NewCleanupDocumentsHandler(svc)

	templates := query.NewListTemplatesHandler(svc)
	detail := query.NewTemplateDetailHandler(svc)
	caps := query.NewBackendCapabilitiesHandler(svc)

	subscriptions := []dispatcher.Subscription{
		dispatcher.SubscribeCommand(gen),
		dispatcher.SubscribeCommand(cleanup),
		dispatcher.SubscribeQuery(templates),
		dispatcher.SubscribeQuery(detail),
		dispatcher.SubscribeQuery(caps),
	}

	if reg != nil {
		for _, handler := range []any{gen, cleanup, templates, detail, caps} {
			if err := reg.RegisterCommand(handler); err != nil {
				return subscriptions, err
			}
		}
	}

	return subscriptions, nil
}
