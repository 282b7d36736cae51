package controllers

import (
	"ibuild/services/certificate"
	"ibuild/services/enrollment"
	"ibuild/services/notification"
	"ibuild/services/qualification"
)

var (
	enrollmentService    *enrollment.Service
	qualificationService *qualification.Service
	certificateService   *certificate.Service
	notificationService  *notification.Service
)

// Setup wires the services used by the course controllers. Called once from
// main before routes are registered.
func Setup(e *enrollment.Service, q *qualification.Service, cert *certificate.Service, n *notification.Service) {
	enrollmentService = e
	qualificationService = q
	certificateService = cert
	notificationService = n
}
