package server

import (
	"propertyadda/internal/models"
	"propertyadda/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Catalog handlers cover the cities, agents and services reference data:
// public list/get plus admin-only creation.

func (s *Server) GetCities(c *fiber.Ctx) error {
	cities, err := s.store.ListCities(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if cities == nil {
		cities = []models.City{}
	}
	return c.JSON(cities)
}

func (s *Server) GetCity(c *fiber.Ctx) error {
	id, err := s.parseID(c, "city")
	if err != nil {
		return nil
	}

	city, err := s.store.GetCity(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if city == nil {
		return models.RespondWithAppError(c, models.NewNotFoundError("City", id))
	}
	return c.JSON(city)
}

func (s *Server) CreateCity(c *fiber.Ctx) error {
	var req models.InsertCity
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateInsertCity(req); err != nil {
		return models.RespondWithAppError(c, err)
	}

	city, err := s.store.CreateCity(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(city)
}

func (s *Server) GetAgents(c *fiber.Ctx) error {
	agents, err := s.store.ListAgents(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if agents == nil {
		agents = []models.Agent{}
	}
	return c.JSON(agents)
}

func (s *Server) GetAgent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "agent")
	if err != nil {
		return nil
	}

	agent, err := s.store.GetAgent(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if agent == nil {
		return models.RespondWithAppError(c, models.NewNotFoundError("Agent", id))
	}
	return c.JSON(agent)
}

func (s *Server) CreateAgent(c *fiber.Ctx) error {
	var req models.InsertAgent
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateInsertAgent(req); err != nil {
		return models.RespondWithAppError(c, err)
	}

	agent, err := s.store.CreateAgent(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(agent)
}

func (s *Server) GetServices(c *fiber.Ctx) error {
	services, err := s.store.ListServices(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if services == nil {
		services = []models.Service{}
	}
	return c.JSON(services)
}

func (s *Server) GetService(c *fiber.Ctx) error {
	id, err := s.parseID(c, "service")
	if err != nil {
		return nil
	}

	service, err := s.store.GetService(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if service == nil {
		return models.RespondWithAppError(c, models.NewNotFoundError("Service", id))
	}
	return c.JSON(service)
}

func (s *Server) CreateService(c *fiber.Ctx) error {
	var req models.InsertService
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateInsertService(req); err != nil {
		return models.RespondWithAppError(c, err)
	}

	service, err := s.store.CreateService(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(service)
}
