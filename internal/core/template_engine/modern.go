package template_engine

const modernBody = `<header class="hero">
  <div class="hero-inner">
    <h1>{{.Doc.Hero.Name}}</h1>
    <p class="tagline">{{.Doc.Hero.Title}}</p>
    <p class="bio">{{.Doc.Hero.Bio}}</p>
{{- if .HasSocial}}
    <nav class="social">
{{- if .Doc.Hero.SocialLinks.GitHub}}
      <a href="{{.Doc.Hero.SocialLinks.GitHub}}" aria-label="GitHub">GitHub</a>
{{- end}}
{{- if .Doc.Hero.SocialLinks.LinkedIn}}
      <a href="{{.Doc.Hero.SocialLinks.LinkedIn}}" aria-label="LinkedIn">LinkedIn</a>
{{- end}}
{{- if .Doc.Hero.SocialLinks.Twitter}}
      <a href="{{.Doc.Hero.SocialLinks.Twitter}}" aria-label="Twitter">Twitter</a>
{{- end}}
{{- if .Doc.Hero.SocialLinks.Website}}
      <a href="{{.Doc.Hero.SocialLinks.Website}}" aria-label="Website">Website</a>
{{- end}}
    </nav>
{{- end}}
  </div>
</header>
<main>
{{- if .HasAbout}}
<section id="about" class="panel">
  <h2>About</h2>
  <p>{{.Doc.About.Description}}</p>
{{- if .Doc.About.Highlights}}
  <ul class="highlights">
{{- range .Doc.About.Highlights}}
    <li>{{.}}</li>
{{- end}}
  </ul>
{{- end}}
</section>
{{- end}}
{{- if .HasProjects}}
<section id="projects" class="panel">
  <h2>Projects</h2>
  <div class="grid">
{{- range .Doc.Projects}}
    <article class="card">
      <h3>{{.Title}}</h3>
      <p>{{.Description}}</p>
{{- if .TechStack}}
      <ul class="tags">
{{- range .TechStack}}
        <li>{{.}}</li>
{{- end}}
      </ul>
{{- end}}
      <div class="links">
{{- if .GithubURL}}
        <a href="{{.GithubURL}}">Code</a>
{{- end}}
{{- if .LiveURL}}
        <a href="{{.LiveURL}}">Live</a>
{{- end}}
      </div>
    </article>
{{- end}}
  </div>
</section>
{{- end}}
{{- if .HasExperience}}
<section id="experience" class="panel">
  <h2>Experience</h2>
{{- range .Doc.Experience}}
  <article class="entry">
    <div class="entry-head">
      <h3>{{.Role}}</h3>
      <span class="org">{{.Company}}</span>
      <span class="dates">{{.StartDate}}{{if .EndDate}} – {{.EndDate}}{{end}}</span>
    </div>
    <p>{{.Description}}</p>
  </article>
{{- end}}
</section>
{{- end}}
{{- if .HasEducation}}
<section id="education" class="panel">
  <h2>Education</h2>
{{- range .Doc.Education}}
  <article class="entry">
    <h3>{{.Institution}}</h3>
    <p>{{.Degree}}{{if .Field}}, {{.Field}}{{end}}{{if .EndDate}} · {{.EndDate}}{{end}}</p>
  </article>
{{- end}}
</section>
{{- end}}
{{- if .HasContact}}
<section id="contact" class="panel">
  <h2>Get in touch</h2>
{{- if .Doc.Contact.Message}}
  <p>{{.Doc.Contact.Message}}</p>
{{- end}}
{{- if .Doc.Contact.Email}}
  <a class="cta" href="mailto:{{.Doc.Contact.Email}}">{{.Doc.Contact.Email}}</a>
{{- end}}
</section>
{{- end}}
</main>
`

const modernCSS = `:root{--bg:#0f172a;--panel:#1e293b;--fg:#e2e8f0;--muted:#94a3b8;--accent:#38bdf8}
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:'Segoe UI',system-ui,sans-serif;background:var(--bg);color:var(--fg);line-height:1.6}
.hero{padding:5rem 1.5rem;background:linear-gradient(160deg,#0f172a,#1e3a5f)}
.hero-inner{max-width:56rem;margin:0 auto}
.hero h1{font-size:2.8rem}
.tagline{color:var(--accent);font-size:1.2rem;margin:.4rem 0 1rem}
.bio{max-width:36rem;color:var(--muted)}
.social a{margin-right:1.2rem;color:var(--fg);text-decoration:none;border-bottom:1px solid var(--accent)}
main{max-width:56rem;margin:0 auto;padding:0 1.5rem 4rem}
.panel{margin-top:3rem}
h2{font-size:1.5rem;margin-bottom:1.2rem;color:var(--accent)}
.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(16rem,1fr));gap:1.2rem}
.card{background:var(--panel);border-radius:.6rem;padding:1.2rem}
.tags{list-style:none;display:flex;flex-wrap:wrap;gap:.4rem;margin:.8rem 0}
.tags li{background:#334155;border-radius:999px;padding:.1rem .7rem;font-size:.8rem}
.links a{margin-right:.8rem;color:var(--accent)}
.entry{background:var(--panel);border-radius:.6rem;padding:1rem 1.2rem;margin-bottom:1rem}
.entry-head{display:flex;flex-wrap:wrap;gap:.6rem;align-items:baseline}
.org{color:var(--muted)}
.dates{margin-left:auto;color:var(--muted);font-size:.9rem}
.cta{display:inline-block;background:var(--accent);color:#0f172a;padding:.6rem 1.4rem;border-radius:.4rem;text-decoration:none;font-weight:600}
.highlights{margin-top:.8rem;padding-left:1.2rem;color:var(--muted)}
a{color:var(--accent)}
`

const modernJS = `(function(){
  var panels=document.querySelectorAll('.panel,.card');
  if(!('IntersectionObserver' in window)){return;}
  var obs=new IntersectionObserver(function(entries){
    entries.forEach(function(e){
      if(e.isIntersecting){e.target.style.opacity='1';e.target.style.transform='none';obs.unobserve(e.target);}
    });
  },{threshold:0.1});
  panels.forEach(function(p){
    p.style.opacity='0';p.style.transform='translateY(12px)';
    p.style.transition='opacity .5s ease,transform .5s ease';
    obs.observe(p);
  });
})();
`

func newModernTemplate() (*Definition, error) {
	body, err := compileBody("modern", modernBody)
	if err != nil {
		return nil, err
	}
	return &Definition{
		ID:          "modern",
		Name:        "Modern",
		Description: "A dark two-tone layout with a project grid and scroll-in animations.",
		Features:    []string{"dark mode", "project grid", "scroll animations"},
		Body:        body,
		CSS:         modernCSS,
		JS:          modernJS,
		Config: Config{
			DefaultColorScheme: "dark",
			Toggles:            []string{"show_social", "show_contact", "animations"},
		},
	}, nil
}
