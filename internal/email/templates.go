package email

import "html/template"

// Templates mirror the layout the admin mailbox has always received:
// a header, the description block, then a two-column field grid.

var newTicketTemplate = template.Must(template.New("new_ticket").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px;">
    Nouveau ticket créé
  </h2>

  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #34495e; margin-top: 0;">{{.Title}}</h3>

    <div style="margin: 15px 0;">
      <strong>Description:</strong><br>
      <p style="background-color: white; padding: 10px; border-radius: 4px; margin: 5px 0;">
        {{.Description}}
      </p>
    </div>

    <div style="display: grid; grid-template-columns: 1fr 1fr; gap: 15px; margin: 15px 0;">
      <div>
        <strong>Priorité:</strong><br>
        <span style="color: {{.PriorityColor}}; font-weight: bold;">{{.Priority}}</span>
      </div>
      <div>
        <strong>Service:</strong><br>
        <span>{{.Service}}</span>
      </div>
      <div>
        <strong>Service demandeur:</strong><br>
        <span>{{.ServiceDemandeur}}</span>
      </div>
      <div>
        <strong>Nom demandeur:</strong><br>
        <span>{{.NomDemandeur}}</span>
      </div>
      <div>
        <strong>Temps estimé:</strong><br>
        <span>{{.EstimatedTime}}</span>
      </div>
    </div>
  </div>

  <div style="text-align: center; margin-top: 30px; color: #7f8c8d; font-size: 14px;">
    <p>Ce message a été envoyé automatiquement par le système de gestion de tickets.</p>
  </div>
</div>
`))

var statusUpdateTemplate = template.Must(template.New("status_update").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px;">
    Mise à jour du ticket
  </h2>

  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #34495e; margin-top: 0;">{{.Title}}</h3>

    <div style="margin: 15px 0;">
      <strong>Nouveau statut:</strong><br>
      <span style="color: {{.StatusColor}}; font-weight: bold; font-size: 16px;">{{.Status}}</span>
    </div>

    <div style="margin: 15px 0;">
      <strong>Description:</strong><br>
      <p style="background-color: white; padding: 10px; border-radius: 4px; margin: 5px 0;">
        {{.Description}}
      </p>
    </div>

    <div style="display: grid; grid-template-columns: 1fr 1fr; gap: 15px; margin: 15px 0;">
      <div>
        <strong>Priorité:</strong><br>
        <span style="color: {{.PriorityColor}}; font-weight: bold;">{{.Priority}}</span>
      </div>
      <div>
        <strong>Service:</strong><br>
        <span>{{.Service}}</span>
      </div>
      <div>
        <strong>Service demandeur:</strong><br>
        <span>{{.ServiceDemandeur}}</span>
      </div>
      <div>
        <strong>Nom demandeur:</strong><br>
        <span>{{.NomDemandeur}}</span>
      </div>
    </div>
  </div>

  <div style="text-align: center; margin-top: 30px; color: #7f8c8d; font-size: 14px;">
    <p>Ce message a été envoyé automatiquement par le système de gestion de tickets.</p>
  </div>
</div>
`))
