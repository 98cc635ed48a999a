package mail

// Inline HTML templates keyed by template ID. Kept minimal so the binary
// ships without a template directory.
var emailTemplates = map[string]string{
	"verification": `<!DOCTYPE html>
<html lang="it">
<body style="font-family: Georgia, serif; color: #2d2a26; max-width: 560px; margin: 0 auto; padding: 24px;">
  <h2 style="color: #9a7b4f;">Gaurosa Gioielli</h2>
  <p>Ciao {{.Name}},</p>
  <p>grazie per esserti registrato. Conferma il tuo indirizzo email per attivare il tuo account:</p>
  <p style="margin: 32px 0;">
    <a href="{{.Link}}" style="background: #9a7b4f; color: #ffffff; padding: 12px 28px; text-decoration: none;">Conferma email</a>
  </p>
  <p>Il link scade tra 24 ore. Se non hai richiesto questa registrazione puoi ignorare questo messaggio.</p>
</body>
</html>`,

	"password_reset": `<!DOCTYPE html>
<html lang="it">
<body style="font-family: Georgia, serif; color: #2d2a26; max-width: 560px; margin: 0 auto; padding: 24px;">
  <h2 style="color: #9a7b4f;">Gaurosa Gioielli</h2>
  <p>Ciao {{.Name}},</p>
  <p>abbiamo ricevuto una richiesta per reimpostare la tua password:</p>
  <p style="margin: 32px 0;">
    <a href="{{.Link}}" style="background: #9a7b4f; color: #ffffff; padding: 12px 28px; text-decoration: none;">Reimposta password</a>
  </p>
  <p>Il link scade tra 1 ora. Se non hai richiesto il reset, la tua password resta invariata.</p>
</body>
</html>`,

	"welcome": `<!DOCTYPE html>
<html lang="it">
<body style="font-family: Georgia, serif; color: #2d2a26; max-width: 560px; margin: 0 auto; padding: 24px;">
  <h2 style="color: #9a7b4f;">Gaurosa Gioielli</h2>
  <p>Ciao {{.Name}},</p>
  <p>il tuo account è attivo. Benvenuto nella nostra gioielleria online.</p>
  <p style="margin: 32px 0;">
    <a href="{{.Link}}" style="background: #9a7b4f; color: #ffffff; padding: 12px 28px; text-decoration: none;">Scopri le collezioni</a>
  </p>
</body>
</html>`,
}
