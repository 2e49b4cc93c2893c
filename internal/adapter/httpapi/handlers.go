package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/simaogato/partnerdesk/internal/adapter/rest"
	"github.com/simaogato/partnerdesk/internal/domain"
	"github.com/simaogato/partnerdesk/internal/rules"
)

func (s *Server) listPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := s.partners.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]rest.PartnerDTO, 0, len(partners))
	for _, p := range partners {
		out = append(out, rest.NewPartnerDTO(*p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.clients.List(r.Context(), r.URL.Query().Get("partnerId"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]rest.ClientDTO, 0, len(clients))
	for _, c := range clients {
		out = append(out, rest.NewClientDTO(*c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getClient(w http.ResponseWriter, r *http.Request) {
	client, err := s.clients.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rest.NewClientDTO(*client))
}

func (s *Server) createClient(w http.ResponseWriter, r *http.Request) {
	var dto rest.ClientDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		s.writeError(w, badRequest("invalid JSON body"))
		return
	}

	client, err := dto.Domain()
	if err != nil {
		s.writeError(w, badRequest(err.Error()))
		return
	}
	client.ID = s.newID()
	client.Document = rules.Digits(client.Document)

	if err := client.Validate(); err != nil {
		s.writeError(w, badRequest(err.Error()))
		return
	}
	if _, err := s.partners.GetByID(r.Context(), client.PartnerID); err != nil {
		if errors.Is(err, domain.ErrPartnerNotFound) {
			s.writeError(w, badRequest("unknown partner"))
			return
		}
		s.writeError(w, err)
		return
	}

	if err := s.clients.Create(r.Context(), &client); err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("Client created", "client_id", client.ID, "partner_id", client.PartnerID)
	writeJSON(w, http.StatusCreated, rest.NewClientDTO(client))
}

func (s *Server) patchClient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var dto rest.ClientPatchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		s.writeError(w, badRequest("invalid JSON body"))
		return
	}
	patch, err := dto.Domain()
	if err != nil {
		s.writeError(w, badRequest(err.Error()))
		return
	}

	client, err := s.clients.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	patch.Apply(client)
	if err := client.Validate(); err != nil {
		s.writeError(w, badRequest(err.Error()))
		return
	}

	if err := s.clients.Update(r.Context(), client); err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("Client updated", "client_id", id)
	writeJSON(w, http.StatusOK, rest.NewClientDTO(*client))
}

func (s *Server) deleteClient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.clients.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("Client deleted", "client_id", id)
	writeJSON(w, http.StatusOK, struct{}{})
}
