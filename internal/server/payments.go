package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/umphart/kaccimapro-sub001/pkg/types"
)

func (s *Service) handleListPayments(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("id")

	if err := s.authorizeOrganizationAccess(r, orgID); err != nil {
		s.respondError(w, err)
		return
	}

	payments, err := s.paymentRepo.PaymentsByOrganization(r.Context(), orgID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, payments)
}

func (s *Service) handleGetPaymentDue(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("id")

	if err := s.authorizeOrganizationAccess(r, orgID); err != nil {
		s.respondError(w, err)
		return
	}

	due, err := s.review.DuePaymentType(r.Context(), orgID, time.Now())
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"paymentType": due,
		"amount":      types.Tariff(due),
	})
}

func (s *Service) handleSubmitPayment(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("id")

	if err := s.authorizeOrganizationAccess(r, orgID); err != nil {
		s.respondError(w, err)
		return
	}

	amount, err := strconv.ParseInt(r.FormValue("amount"), 10, 64)
	if err != nil {
		s.respondErrorMessage(w, http.StatusBadRequest, "invalid amount")
		return
	}
	paymentType := types.PaymentType(r.FormValue("payment_type"))
	receiptPath := strings.TrimSpace(r.FormValue("receipt_path"))

	payment, err := s.review.SubmitPayment(r.Context(), orgID, amount, paymentType, receiptPath)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, payment)
}

func (s *Service) handleApprovePayment(w http.ResponseWriter, r *http.Request) {
	paymentID := r.PathValue("id")

	if err := s.review.ApprovePayment(r.Context(), paymentID, s.adminFromContext(r.Context())); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": string(types.PaymentStatusApproved)})
}

func (s *Service) handleRejectPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := r.PathValue("id")
	reason := strings.TrimSpace(r.FormValue("reason"))
	sendEmail := r.FormValue("send_email") == "true"

	if err := s.review.RejectPayment(r.Context(), paymentID, reason, sendEmail, s.adminFromContext(r.Context())); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": string(types.PaymentStatusRejected)})
}
