package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/session"
)

// HeaderSessionID identifica la sesión de navegador; se devuelve en cada respuesta.
const HeaderSessionID = "X-Session-ID"

// LocalSession key de la sesión en c.Locals.
const LocalSession = "session"

// SessionMiddleware resuelve (o crea) la sesión del header X-Session-ID y la deja en c.Locals.
// Un ID ausente, desconocido o inválido abre una sesión nueva; el cliente debe reenviar el ID devuelto.
// El header se copia: c.Get apunta al buffer de fasthttp, que se reutiliza entre peticiones.
func SessionMiddleware(mgr *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, _ := mgr.GetOrCreate(utils.CopyString(c.Get(HeaderSessionID)))
		c.Set(HeaderSessionID, sess.ID)
		c.Locals(LocalSession, sess)
		return c.Next()
	}
}

// GetSession devuelve la sesión del contexto (después de SessionMiddleware).
func GetSession(c *fiber.Ctx) *session.Session {
	v := c.Locals(LocalSession)
	if v == nil {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}

// requireSession corta con 500 si el middleware no corrió.
func requireSession(c *fiber.Ctx) (*session.Session, error) {
	sess := GetSession(c)
	if sess == nil {
		return nil, c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "NO_SESSION", Message: "sesión no inicializada"})
	}
	return sess, nil
}
