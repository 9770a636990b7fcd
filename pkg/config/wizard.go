package config

import (
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// WizardSurvey runs a step by step workflow to gather the values that
// most sites want to adjust.  Anything not asked for keeps its
// default.
func (c *Config) WizardSurvey() error {
	qDirs := []*survey.Question{
		{
			Name: "NotebookDir",
			Prompt: &survey.Input{
				Message: "Notebook source directory",
				Default: c.NotebookDir,
			},
		},
		{
			Name: "OutputDir",
			Prompt: &survey.Input{
				Message: "Static output directory",
				Default: c.OutputDir,
			},
		},
	}
	if err := survey.Ask(qDirs, c); err != nil {
		return err
	}

	qEmbed := []*survey.Question{
		{
			Name: "DefaultHeight",
			Prompt: &survey.Input{
				Message: "Default embed height",
				Default: c.DefaultHeight,
			},
		},
		{
			Name: "DefaultWidth",
			Prompt: &survey.Input{
				Message: "Default embed width",
				Default: c.DefaultWidth,
			},
		},
		{
			Name: "DefaultTheme",
			Prompt: &survey.Select{
				Message: "Default embed theme",
				Options: []string{"light", "dark", "auto"},
				Default: c.DefaultTheme,
			},
		},
	}
	if err := survey.Ask(qEmbed, c); err != nil {
		return err
	}

	gallery := false
	qGallery := &survey.Confirm{
		Message: "Does this site use a gallery generator?",
		Default: false,
	}
	if err := survey.AskOne(qGallery, &gallery); err != nil {
		return err
	}

	if gallery {
		if err := c.wizardGallery(); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) wizardGallery() error {
	g := &GalleryConfig{DownloadsDir: "_downloads"}

	if err := survey.AskOne(&survey.Input{
		Message: "Gallery downloads directory",
		Default: g.DownloadsDir,
	}, &g.DownloadsDir); err != nil {
		return err
	}

	dirs := ""
	if err := survey.AskOne(&survey.Input{
		Message: "Gallery page directories (comma separated)",
		Default: "auto_examples",
	}, &dirs); err != nil {
		return err
	}
	for _, d := range strings.Split(dirs, ",") {
		if d = strings.TrimSpace(d); d != "" {
			g.GalleryDirs = append(g.GalleryDirs, d)
		}
	}

	qButtons := []*survey.Question{
		{
			Name: "FooterButton",
			Prompt: &survey.Confirm{
				Message: "Inject launcher buttons into gallery footers?",
				Default: c.FooterButton,
			},
		},
		{
			Name: "SidebarButton",
			Prompt: &survey.Confirm{
				Message: "Inject launcher links into gallery sidebars?",
				Default: c.SidebarButton,
			},
		},
	}
	if err := survey.Ask(qButtons, c); err != nil {
		return err
	}

	c.Gallery = g
	return nil
}
