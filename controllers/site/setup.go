package controllers

import "ibuild/services/notification"

var notificationService *notification.Service

// Setup injects the services the site controllers depend on. Called once
// from main before routes are mounted.
func Setup(n *notification.Service) {
	notificationService = n
}
