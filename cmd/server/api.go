package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/strokerisk/internal/form"
	"github.com/Skufu/strokerisk/internal/patient"
	"github.com/Skufu/strokerisk/internal/validation"
)

const sessionCookie = "strokerisk_session"

func handleOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"genders":         patient.Genders,
		"workTypes":       patient.WorkTypes,
		"residenceTypes":  patient.ResidenceTypes,
		"smokingStatuses": patient.SmokingStatuses,
		"riskLevels":      patient.RiskLevels,
		"ranges": gin.H{
			validation.FieldAge:             patient.AgeRange,
			validation.FieldAvgGlucoseLevel: patient.GlucoseRange,
			validation.FieldBMI:             patient.BMIRange,
		},
		"defaults": patient.NewInput(),
	})
}

func handleValidate(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}

	errs := validation.Validate(in)
	if !errs.Valid() {
		respondValidation(c, errs)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (a *App) handleSubmit(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}

	ctrl := a.session(c)
	snap, err := ctrl.Submit(c.Request.Context(), in)

	var verr *form.ValidationError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, snap.Result)
	case errors.As(err, &verr):
		respondValidation(c, verr.Errors)
	case errors.Is(err, form.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "submission_in_flight",
			"message": "A prediction is already in progress.",
		})
	default:
		log.Printf("prediction failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "prediction_failed",
			"message": form.FailureMessage,
		})
	}
}

func (a *App) handleCurrent(c *gin.Context) {
	c.JSON(http.StatusOK, a.session(c).Snapshot())
}

// session resolves the caller's form session, issuing a cookie for new ones.
func (a *App) session(c *gin.Context) *form.Controller {
	id, _ := c.Cookie(sessionCookie)
	id, ctrl, created := a.Sessions.GetOrCreate(id)
	if created {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	}
	return ctrl
}

// bindInput decodes the request over a blank form so omitted enum fields keep
// their defaults.
func bindInput(c *gin.Context) (patient.Input, bool) {
	in := patient.NewInput()
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return patient.Input{}, false
	}
	return in, true
}

func respondValidation(c *gin.Context, errs validation.Errors) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":   "validation_failed",
		"message": errs.Summary(),
		"fields":  errs.Fields(),
	})
}
