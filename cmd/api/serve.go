package main

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/pkg/logger"
)

// serve atiende HTTP en segundo plano. Si Listen falla, deja el error en el canal
// y llama a stop para que main pase al apagado en vez de quedarse esperando una señal.
func serve(app *fiber.App, addr string, stop context.CancelFunc, log *logger.Logger) <-chan error {
	errc := make(chan error, 1)
	go func() {
		err := app.Listen(addr)
		errc <- err
		if err != nil {
			log.Error().Err(err).Str("addr", addr).Msg("servidor HTTP finalizado")
			stop()
		}
	}()
	return errc
}
