package notify

import "log/slog"

// Notifier abstrai o canal de saída (WhatsApp/SMS/e-mail). Fire and
// forget: falha de entrega é logada e nunca derruba a operação de
// negócio que disparou o aviso.
type Notifier interface {
	Send(to, message string) error
}

// LogNotifier registra a mensagem no log estruturado. É a implementação
// padrão enquanto o transporte real fica fora deste serviço.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(to, message string) error {
	n.logger.Info("notification", "to", to, "message", message)
	return nil
}
