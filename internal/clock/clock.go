package clock

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// Clock é a única fonte de "agora" do núcleo de agendamento; os testes
// injetam um relógio congelado.
type Clock interface {
	Now() time.Time
}

type System struct {
	TZ string
}

func (s System) Now() time.Time {
	return timezone.NowIn(s.TZ)
}

// Fixed devolve sempre o mesmo instante.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}
