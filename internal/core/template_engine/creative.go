package template_engine

const creativeBody = `<header class="hero">
  <h1 class="display">{{.Doc.Hero.Name}}</h1>
  <p class="tagline">{{.Doc.Hero.Title}}</p>
  <p class="bio">{{.Doc.Hero.Bio}}</p>
{{- if .HasSocial}}
  <nav class="social">
{{- if .Doc.Hero.SocialLinks.GitHub}}
    <a href="{{.Doc.Hero.SocialLinks.GitHub}}">gh</a>
{{- end}}
{{- if .Doc.Hero.SocialLinks.LinkedIn}}
    <a href="{{.Doc.Hero.SocialLinks.LinkedIn}}">in</a>
{{- end}}
{{- if .Doc.Hero.SocialLinks.Twitter}}
    <a href="{{.Doc.Hero.SocialLinks.Twitter}}">tw</a>
{{- end}}
{{- if .Doc.Hero.SocialLinks.Website}}
    <a href="{{.Doc.Hero.SocialLinks.Website}}">www</a>
{{- end}}
  </nav>
{{- end}}
</header>
{{- if .HasAbout}}
<section id="about" class="band">
  <h2>About</h2>
  <p class="lede">{{.Doc.About.Description}}</p>
{{- if .Doc.About.Highlights}}
  <ul class="chips">
{{- range .Doc.About.Highlights}}
    <li>{{.}}</li>
{{- end}}
  </ul>
{{- end}}
</section>
{{- end}}
{{- if .HasProjects}}
<section id="projects" class="band alt">
  <h2>Selected Work</h2>
{{- range $i, $p := .Doc.Projects}}
  <article class="work{{if oddIndex $i}} flip{{end}}">
    <h3>{{$p.Title}}</h3>
    <p>{{$p.Description}}</p>
{{- if $p.TechStack}}
    <p class="tech">{{range $j, $t := $p.TechStack}}{{if $j}} / {{end}}{{$t}}{{end}}</p>
{{- end}}
{{- if $p.GithubURL}}
    <a href="{{$p.GithubURL}}">source</a>
{{- end}}
{{- if $p.LiveURL}}
    <a href="{{$p.LiveURL}}">visit</a>
{{- end}}
  </article>
{{- end}}
</section>
{{- end}}
{{- if .HasExperience}}
<section id="experience" class="band">
  <h2>Experience</h2>
  <ol class="timeline">
{{- range .Doc.Experience}}
    <li>
      <span class="dates">{{.StartDate}}{{if .EndDate}} – {{.EndDate}}{{end}}</span>
      <h3>{{.Role}} · {{.Company}}</h3>
      <p>{{.Description}}</p>
    </li>
{{- end}}
  </ol>
</section>
{{- end}}
{{- if .HasEducation}}
<section id="education" class="band alt">
  <h2>Education</h2>
{{- range .Doc.Education}}
  <p><strong>{{.Institution}}</strong> — {{.Degree}}{{if .Field}}, {{.Field}}{{end}}</p>
{{- end}}
</section>
{{- end}}
{{- if .HasContact}}
<section id="contact" class="band">
  <h2>Say hello</h2>
{{- if .Doc.Contact.Message}}
  <p class="lede">{{.Doc.Contact.Message}}</p>
{{- end}}
{{- if .Doc.Contact.Email}}
  <a class="big-link" href="mailto:{{.Doc.Contact.Email}}">{{.Doc.Contact.Email}}</a>
{{- end}}
</section>
{{- end}}
`

const creativeCSS = `:root{--ink:#181210;--paper:#faf5ef;--pop:#e8472b;--soft:#f0e4d6}
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:'Helvetica Neue',Arial,sans-serif;background:var(--paper);color:var(--ink);line-height:1.65}
.hero{padding:6rem 8vw 4rem}
.display{font-size:clamp(2.5rem,8vw,5rem);letter-spacing:-.03em;line-height:1.05}
.tagline{font-size:1.3rem;color:var(--pop);margin:.6rem 0 1.2rem;text-transform:uppercase;letter-spacing:.12em}
.bio{max-width:34rem}
.social a{display:inline-block;margin-right:.6rem;width:2.4rem;height:2.4rem;line-height:2.4rem;text-align:center;border:2px solid var(--ink);border-radius:50%;color:var(--ink);text-decoration:none;font-size:.8rem}
.band{padding:3.5rem 8vw}
.band.alt{background:var(--soft)}
h2{font-size:1.1rem;text-transform:uppercase;letter-spacing:.2em;color:var(--pop);margin-bottom:1.4rem}
.lede{font-size:1.2rem;max-width:38rem}
.chips{list-style:none;display:flex;flex-wrap:wrap;gap:.5rem;margin-top:1rem}
.chips li{border:1px solid var(--ink);border-radius:999px;padding:.2rem .9rem;font-size:.85rem}
.work{margin-bottom:2.2rem;max-width:38rem}
.work.flip{margin-left:auto;text-align:right}
.work h3{font-size:1.5rem}
.tech{color:#8a7a68;font-size:.85rem;margin:.3rem 0}
.timeline{list-style:none}
.timeline li{border-left:3px solid var(--pop);padding:0 0 1.6rem 1.4rem;position:relative}
.dates{font-size:.8rem;color:#8a7a68;text-transform:uppercase;letter-spacing:.1em}
.big-link{font-size:clamp(1.4rem,4vw,2.4rem);color:var(--ink);text-decoration-color:var(--pop);text-decoration-thickness:3px}
a{color:var(--pop)}
`

const creativeJS = `(function(){
  var display=document.querySelector('.display');
  if(!display){return;}
  window.addEventListener('scroll',function(){
    var y=window.scrollY;
    display.style.transform='translateY('+(y*0.15)+'px)';
    display.style.opacity=String(Math.max(0,1-y/400));
  },{passive:true});
})();
`

func newCreativeTemplate() (*Definition, error) {
	body, err := compileBody("creative", creativeBody)
	if err != nil {
		return nil, err
	}
	return &Definition{
		ID:          "creative",
		Name:        "Creative",
		Description: "An editorial layout with oversized type, alternating work entries and a timeline.",
		Features:    []string{"editorial typography", "alternating layout", "parallax hero"},
		IsPremium:   true,
		Body:        body,
		CSS:         creativeCSS,
		JS:          creativeJS,
		Config: Config{
			DefaultColorScheme: "warm",
			Toggles:            []string{"show_social", "show_contact", "parallax"},
		},
	}, nil
}
