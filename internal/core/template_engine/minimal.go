package template_engine

const minimalBody = `<header class="hero">
  <h1>{{.Doc.Hero.Name}}</h1>
  <p class="tagline">{{.Doc.Hero.Title}}</p>
  <p class="bio">{{.Doc.Hero.Bio}}</p>
{{- if .HasSocial}}
  <nav class="social">
{{- if .Doc.Hero.SocialLinks.GitHub}}
    <a href="{{.Doc.Hero.SocialLinks.GitHub}}">GitHub</a>
{{- end}}
{{- if .Doc.Hero.SocialLinks.LinkedIn}}
    <a href="{{.Doc.Hero.SocialLinks.LinkedIn}}">LinkedIn</a>
{{- end}}
{{- if .Doc.Hero.SocialLinks.Twitter}}
    <a href="{{.Doc.Hero.SocialLinks.Twitter}}">Twitter</a>
{{- end}}
{{- if .Doc.Hero.SocialLinks.Website}}
    <a href="{{.Doc.Hero.SocialLinks.Website}}">Website</a>
{{- end}}
  </nav>
{{- end}}
</header>
{{- if .HasAbout}}
<section id="about">
  <h2>About</h2>
  <p>{{.Doc.About.Description}}</p>
{{- if .Doc.About.Highlights}}
  <ul>
{{- range .Doc.About.Highlights}}
    <li>{{.}}</li>
{{- end}}
  </ul>
{{- end}}
</section>
{{- end}}
{{- if .HasProjects}}
<section id="projects">
  <h2>Projects</h2>
{{- range .Doc.Projects}}
  <article class="project">
    <h3>{{.Title}}</h3>
    <p>{{.Description}}</p>
{{- if .TechStack}}
    <p class="tech">{{range $i, $t := .TechStack}}{{if $i}} · {{end}}{{$t}}{{end}}</p>
{{- end}}
{{- if .GithubURL}}
    <a href="{{.GithubURL}}">Code</a>
{{- end}}
{{- if .LiveURL}}
    <a href="{{.LiveURL}}">Live</a>
{{- end}}
  </article>
{{- end}}
</section>
{{- end}}
{{- if .HasExperience}}
<section id="experience">
  <h2>Experience</h2>
{{- range .Doc.Experience}}
  <article class="role">
    <h3>{{.Role}} — {{.Company}}</h3>
    <p class="dates">{{.StartDate}}{{if .EndDate}} – {{.EndDate}}{{end}}</p>
    <p>{{.Description}}</p>
  </article>
{{- end}}
</section>
{{- end}}
{{- if .HasEducation}}
<section id="education">
  <h2>Education</h2>
{{- range .Doc.Education}}
  <article class="school">
    <h3>{{.Institution}}</h3>
    <p>{{.Degree}}{{if .Field}}, {{.Field}}{{end}}</p>
  </article>
{{- end}}
</section>
{{- end}}
{{- if .HasContact}}
<section id="contact">
  <h2>Contact</h2>
{{- if .Doc.Contact.Message}}
  <p>{{.Doc.Contact.Message}}</p>
{{- end}}
{{- if .Doc.Contact.Email}}
  <p><a href="mailto:{{.Doc.Contact.Email}}">{{.Doc.Contact.Email}}</a></p>
{{- end}}
</section>
{{- end}}
`

const minimalCSS = `:root{--fg:#1a1a1a;--muted:#666;--accent:#2563eb;--bg:#ffffff}
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:Georgia,serif;color:var(--fg);background:var(--bg);max-width:42rem;margin:0 auto;padding:3rem 1.5rem;line-height:1.6}
.hero h1{font-size:2.2rem}
.tagline{color:var(--muted);font-style:italic;margin-bottom:.8rem}
.social a{margin-right:1rem;color:var(--accent);text-decoration:none}
section{margin-top:2.5rem}
h2{font-size:1.3rem;border-bottom:1px solid #e5e5e5;padding-bottom:.3rem;margin-bottom:1rem}
article{margin-bottom:1.4rem}
.tech,.dates{color:var(--muted);font-size:.9rem}
a{color:var(--accent)}
`

const minimalJS = `document.querySelectorAll('a[href^="#"]').forEach(function(a){
  a.addEventListener('click',function(e){
    var t=document.querySelector(a.getAttribute('href'));
    if(t){e.preventDefault();t.scrollIntoView({behavior:'smooth'});}
  });
});
`

func newMinimalTemplate() (*Definition, error) {
	body, err := compileBody("minimal", minimalBody)
	if err != nil {
		return nil, err
	}
	return &Definition{
		ID:          "minimal",
		Name:        "Minimal",
		Description: "A quiet single-column layout that puts the writing first.",
		Features:    []string{"single-column", "serif typography", "smooth scrolling"},
		Body:        body,
		CSS:         minimalCSS,
		JS:          minimalJS,
		Config: Config{
			DefaultColorScheme: "light",
			Toggles:            []string{"show_social", "show_contact"},
		},
	}, nil
}
