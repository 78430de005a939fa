package handlers

import (
	"encoding/xml"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"elfportal/internal/models"
	"elfportal/internal/repositories"
	"elfportal/internal/services"
)

type SiteHandler struct {
	Site    repositories.SiteRepository
	Mail    services.EmailService
	Notify  *services.Notifier
	BaseURL string
}

func NewSiteHandler(site repositories.SiteRepository, mail services.EmailService, notify *services.Notifier, baseURL string) *SiteHandler {
	return &SiteHandler{Site: site, Mail: mail, Notify: notify, BaseURL: strings.TrimRight(baseURL, "/")}
}

// seoMeta is the head block every public page carries.
type seoMeta struct {
	Canonical     string `json:"canonical"`
	OGTitle       string `json:"og_title"`
	OGDescription string `json:"og_description"`
	OGURL         string `json:"og_url"`
}

func (h *SiteHandler) meta(path, title, description string) seoMeta {
	url := h.BaseURL + path
	return seoMeta{Canonical: url, OGTitle: title, OGDescription: description, OGURL: url}
}

func (h *SiteHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	branding, err := h.Site.Branding(ctx)
	if err != nil {
		log.Printf("[site][home][err] branding: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load the page"})
		return
	}
	siteServices, err := h.Site.Services(ctx)
	if err != nil {
		log.Printf("[site][home][err] services: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load the page"})
		return
	}
	process, err := h.Site.SlidesByOwner(ctx, "about_us_mini")
	if err != nil {
		log.Printf("[site][home][err] slides: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load the page"})
		return
	}

	title, tagline := "ELF", ""
	if branding != nil {
		title, tagline = branding.Title, branding.Tagline
	}
	c.JSON(http.StatusOK, gin.H{
		"page":     "home",
		"branding": branding,
		"services": siteServices,
		"process":  process,
		"meta":     h.meta("/", title, tagline),
		"flash":    popFlash(c),
	})
}

func (h *SiteHandler) Solutions(c *gin.Context) {
	h.marketingPage(c, "/solutions", "solutions", func(ctx *gin.Context, payload gin.H, heading *models.PageHeading) error {
		siteServices, err := h.Site.Services(ctx.Request.Context())
		if err != nil {
			return err
		}
		payload["services"] = siteServices
		return nil
	})
}

func (h *SiteHandler) About(c *gin.Context) {
	h.marketingPage(c, "/about", "about_us", func(ctx *gin.Context, payload gin.H, heading *models.PageHeading) error {
		values, err := h.Site.SlidesByOwner(ctx.Request.Context(), "about_us")
		if err != nil {
			return err
		}
		process, err := h.Site.SlidesByOwner(ctx.Request.Context(), "about_us_mini")
		if err != nil {
			return err
		}
		payload["values"] = values
		payload["process"] = process
		return nil
	})
}

func (h *SiteHandler) Enquire(c *gin.Context) {
	h.marketingPage(c, "/enquire", "enquiry", func(ctx *gin.Context, payload gin.H, heading *models.PageHeading) error {
		siteServices, err := h.Site.Services(ctx.Request.Context())
		if err != nil {
			return err
		}
		payload["services"] = siteServices
		return nil
	})
}

func (h *SiteHandler) marketingPage(c *gin.Context, path, headingTitle string, extend func(*gin.Context, gin.H, *models.PageHeading) error) {
	heading, err := h.Site.HeadingByTitle(c.Request.Context(), headingTitle)
	if err != nil {
		log.Printf("[site][%s][err] heading: %v", headingTitle, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load the page"})
		return
	}
	title, tagline := "ELF", ""
	if heading != nil {
		title = strings.TrimSpace(heading.Slogan1 + " " + heading.Slogan2)
		tagline = heading.Tagline
	}
	payload := gin.H{
		"page":    headingTitle,
		"heading": heading,
		"meta":    h.meta(path, title, tagline),
		"flash":   popFlash(c),
	}
	if err := extend(c, payload, heading); err != nil {
		log.Printf("[site][%s][err] %v", headingTitle, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load the page"})
		return
	}
	c.JSON(http.StatusOK, payload)
}

// Contact relays the enquiry by email. A send failure degrades to a warning
// flash so the visitor never sees an error page for our SMTP trouble.
func (h *SiteHandler) Contact(c *gin.Context) {
	lead := models.ContactLead{
		Name:    strings.TrimSpace(c.PostForm("name")),
		Email:   strings.TrimSpace(c.PostForm("email")),
		Phone:   strings.TrimSpace(c.PostForm("phone")),
		Message: strings.TrimSpace(c.PostForm("message")),
	}
	if lead.Name == "" || lead.Email == "" || lead.Message == "" {
		redirectWithFlash(c, "/enquire", "danger", "Name, email and message are required.")
		return
	}

	serviceTitle := "General Inquiry"
	if id, ok := parseID(c.PostForm("service")); ok {
		if svc, err := h.Site.ServiceByID(c.Request.Context(), id); err == nil && svc != nil {
			serviceTitle = svc.Title
		}
	}
	lead.Message = "Service: " + serviceTitle + "\n\n" + lead.Message

	if err := h.Mail.SendContactEnquiry(lead); err != nil {
		log.Printf("[site][contact][err] %v", err)
		redirectWithFlash(c, "/", "warning",
			"We received your enquiry but could not confirm it by email. We will be in touch.")
		return
	}
	h.Notify.LeadReceived(lead)
	redirectWithFlash(c, "/", "success", "Thank you for your enquiry. We will be in touch shortly.")
}

func (h *SiteHandler) Robots(c *gin.Context) {
	body := "User-agent: *\nDisallow: /internal/\nSitemap: " + h.BaseURL + "/sitemap.xml\n"
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

type sitemapSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

func (h *SiteHandler) Sitemap(c *gin.Context) {
	set := sitemapSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
	}
	for _, path := range []string{"/", "/solutions", "/about", "/enquire"} {
		set.URLs = append(set.URLs, sitemapURL{Loc: h.BaseURL + path})
	}
	c.XML(http.StatusOK, set)
}

func (h *SiteHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
