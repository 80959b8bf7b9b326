package parsers

// builtin fixes the auto-detection probe order. Categories with precise
// detectors come first; permissive ones come last so they cannot shadow a
// specific adapter. jfrog-unified accepts nearly any JSON document and is
// therefore registered after every other scanner, with only the generic
// fallbacks behind it. generic-json and generic-csv never self-detect, so
// their position only affects List output.
var builtin = []Parser{
	// SAST
	banditParser{},
	bearerParser{},
	brakemanParser{},
	checkmarxParser{},
	codeqlParser{},
	contrastParser{},
	coverityParser{},
	credscanParser{},
	dawnscannerParser{},
	detectSecretsParser{},
	eslintParser{},
	fortifyParser{},
	gitguardianParser{},
	gitleaksParser{},
	gosecParser{},
	horusecParser{},
	noseyparkerParser{},
	phpstanParser{},
	semgrepParser{},
	sonarqubeParser{},

	// DAST
	acunetixParser{},
	appspiderParser{},
	arachniParser{},
	burpParser{},
	burpEnterpriseParser{},
	crashtestParser{},
	edgescanParser{},
	hclAppScanParser{},
	ibmAppScanParser{},
	immuniwebParser{},
	mobsfParser{},
	netsparkerParser{},
	niktoParser{},
	nucleiParser{},
	webinspectParser{},
	zapParser{},

	// SCA
	auditjsParser{},
	blackduckParser{},
	bundlerAuditParser{},
	cargoAuditParser{},
	cyclonedxParser{},
	dependencyCheckParser{},
	govulncheckParser{},
	grypeParser{},
	jfrogXrayParser{},
	npmAuditParser{},
	osvParser{},
	pipAuditParser{},
	retirejsParser{},
	safetyParser{},
	snykParser{},
	trivyParser{},

	// Infrastructure
	checkovParser{},
	cloudsploitParser{},
	gitlabSASTParser{},
	kicsParser{},
	kubeBenchParser{},
	kubeHunterParser{},
	kubesecParser{},
	nessusParser{},
	openvasParser{},
	prowlerParser{},
	qualysParser{},
	terrascanParser{},
	tfsecParser{},

	// Container
	anchoreParser{},
	aquaParser{},
	clairParser{},
	dockerBenchParser{},
	dockleParser{},
	hadolintParser{},
	harborParser{},
	neuvectorParser{},
	sysdigParser{},
	twistlockParser{},

	// Cloud
	awsSecurityHubParser{},
	azureSecurityCenterParser{},
	gcpSCCParser{},
	scoutSuiteParser{},

	// Network
	masscanParser{},
	nmapParser{},
	sslyzeParser{},
	testsslParser{},

	// Mobile
	androbugsParser{},
	qarkParser{},

	// Bug bounty
	bugcrowdParser{},
	cobaltIOParser{},
	hackerOneParser{},

	// Other
	crunch42Parser{},
	drHeaderParser{},
	githubAdvancedParser{},
	huskyCIParser{},
	intSightsParser{},
	ortParser{},
	outpost24Parser{},

	// Catch-alls
	sarifParser{},
	jfrogUnifiedParser{},
	genericJSONParser{},
	genericCSVParser{},
}

var (
	ordered []Parser
	byName  map[string]Parser
)

func init() {
	ordered = builtin
	byName = make(map[string]Parser, len(builtin))
	for _, p := range builtin {
		name := p.Info().Name
		if _, dup := byName[name]; dup {
			panic("parsers: duplicate registration of " + name)
		}
		byName[name] = p
	}
}
