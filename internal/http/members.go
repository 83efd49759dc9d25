package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kenlibrary/internal/database/members"
	"kenlibrary/internal/entities"
)

type MembersController struct {
	members *members.Repository
	flashes flashStore
}

func NewMembersController(m *members.Repository, flashes flashStore) *MembersController {
	if flashes == nil {
		flashes = noopFlash{}
	}
	return &MembersController{members: m, flashes: flashes}
}

func (ctrl *MembersController) Page(c *gin.Context) {
	allMembers, err := ctrl.members.GetAll()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading members: %s", err.Error())
		return
	}

	renderPage(c, ctrl.flashes, "members", gin.H{
		"Active":  "members",
		"Members": allMembers,
	})
}

// Create adds a member from the form. Name is required.
func (ctrl *MembersController) Create(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		ctrl.flashes.SetFlashError(c.Request, "Name is required.")
		redirectAfterPost(c, "/members")
		return
	}

	member := entities.Member{
		Name:  name,
		Phone: strings.TrimSpace(c.PostForm("phone")),
		Email: strings.TrimSpace(c.PostForm("email")),
	}
	if err := ctrl.members.Create(&member); err != nil {
		ctrl.flashes.SetFlashError(c.Request, "Could not add the member: "+err.Error())
	} else {
		ctrl.flashes.SetFlash(c.Request, "Member added.")
	}
	redirectAfterPost(c, "/members")
}

// Delete removes a member and, through the schema's cascade, their loans.
func (ctrl *MembersController) Delete(c *gin.Context) {
	id, ok := parseFormID(c, "member_id")
	if !ok {
		ctrl.flashes.SetFlashError(c.Request, "Select a member to delete.")
		redirectAfterPost(c, "/members")
		return
	}

	if err := ctrl.members.Delete(id); err != nil {
		ctrl.flashes.SetFlashError(c.Request, "Could not delete the member: "+err.Error())
	} else {
		ctrl.flashes.SetFlash(c.Request, "Member deleted.")
	}
	redirectAfterPost(c, "/members")
}
